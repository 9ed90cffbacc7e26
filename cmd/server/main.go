// Package main runs the registration and check-in HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tws-events/checkin/config"
	"github.com/tws-events/checkin/internal/admin"
	"github.com/tws-events/checkin/internal/attendance"
	"github.com/tws-events/checkin/internal/emaillogs"
	"github.com/tws-events/checkin/internal/mailer"
	"github.com/tws-events/checkin/internal/middleware"
	"github.com/tws-events/checkin/internal/registrations"
	"github.com/tws-events/checkin/internal/worker"
	"github.com/tws-events/checkin/pkg/database"
	"github.com/tws-events/checkin/pkg/queue"
	"github.com/tws-events/checkin/pkg/redis"
	"github.com/tws-events/checkin/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.URL, database.PoolOptions{
		MaxConns:        int32(cfg.Database.MaxConns),
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	// Registrations
	passCache := registrations.NewPassCache(cfg.Cache.PassTTL, cfg.Cache.CleanupInterval)
	registrationRepo := registrations.NewRepository(pool)
	registrationSvc := registrations.NewService(registrationRepo, passCache, logger)
	registrationHandler := registrations.NewHandler(registrationSvc, logger)

	// Attendance
	attendanceRepo := attendance.NewRepository(pool)
	attendanceSvc := attendance.NewService(attendanceRepo, logger)
	attendanceHandler := attendance.NewHandler(attendanceSvc, logger)
	resolver := attendance.NewResolver(registrationSvc.Verify)

	adminHandler := admin.NewHandler(registrationSvc, attendanceSvc, resolver, logger)
	emailLogRepo := emaillogs.NewRepository(pool)
	emailLogHandler := emaillogs.NewHandler(emailLogRepo, logger)

	// Pass notifications (optional; needs Redis)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	if cfg.Redis.Addr != "" {
		rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
		if err != nil {
			logger.Warn("pass notifications disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			jobQueue := queue.NewQueue(rdb.Client, logger)
			registrationSvc.SetNotifier(jobQueue)
			if cfg.Server.RunWorker {
				notifier, err := newPassNotifier(ctx, cfg, jobQueue, emailLogRepo, logger)
				if err != nil {
					logger.Fatal("pass notifier", zap.Error(err))
				}
				go notifier.Run(workerCtx)
				logger.Info("pass notifier started")
			}
		}
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins()))
	router.Use(middleware.Logger(logger))
	router.SetHTMLTemplate(admin.Templates())

	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	api := router.Group("/api")
	{
		api.POST("/register", registrationHandler.Register)
		api.GET("/verify/:id", registrationHandler.Verify)
		api.POST("/mark-attendance", attendanceHandler.Mark)
	}

	adminGroup := router.Group("/admin")
	{
		adminGroup.GET("/registrations", adminHandler.Registrations)
		adminGroup.GET("/registrations/:id/emails", emailLogHandler.ListByRegistration)
		adminGroup.GET("/attendance", adminHandler.Attendance)
	}

	if cfg.Server.StaticDir != "" {
		files := http.FileServer(http.Dir(cfg.Server.StaticDir))
		router.NoRoute(func(c *gin.Context) {
			if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
				response.NotFound(c, "Not found.")
				return
			}
			files.ServeHTTP(c.Writer, c.Request)
		})
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("url", "http://localhost:"+cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	workerCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

// newPassNotifier delivers through SES when credentials are configured and logs otherwise.
func newPassNotifier(ctx context.Context, cfg *config.Config, q *queue.Queue, deliveries worker.DeliveryLog, logger *zap.Logger) (*worker.PassNotifier, error) {
	renderer, err := mailer.NewRenderer()
	if err != nil {
		return nil, err
	}
	var m mailer.Mailer = mailer.NewLogMailer(logger)
	if cfg.AWS.Enabled() {
		ses, err := mailer.NewSESMailer(ctx, mailer.SESConfig{
			Region:          cfg.AWS.Region,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			FromAddress:     cfg.Email.FromAddress,
			FromName:        cfg.Email.FromName,
		}, logger)
		if err != nil {
			logger.Warn("ses disabled, logging emails instead", zap.Error(err))
		} else {
			m = ses
		}
	}
	n := worker.NewPassNotifier(q, renderer, m, cfg.Email.EventName, logger)
	n.SetDeliveryLog(deliveries)
	return n, nil
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
