// Package main runs the pass confirmation worker on its own. Run the server
// with RUN_WORKER=false when deploying this binary separately.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tws-events/checkin/config"
	"github.com/tws-events/checkin/internal/emaillogs"
	"github.com/tws-events/checkin/internal/mailer"
	"github.com/tws-events/checkin/internal/worker"
	"github.com/tws-events/checkin/pkg/database"
	"github.com/tws-events/checkin/pkg/queue"
	"github.com/tws-events/checkin/pkg/redis"
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

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	renderer, err := mailer.NewRenderer()
	if err != nil {
		logger.Fatal("templates", zap.Error(err))
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
			logger.Fatal("ses", zap.Error(err))
		}
		m = ses
	} else {
		logger.Warn("AWS credentials not set, pass emails will only be logged")
	}

	jobQueue := queue.NewQueue(rdb.Client, logger)
	notifier := worker.NewPassNotifier(jobQueue, renderer, m, cfg.Email.EventName, logger)
	notifier.SetDeliveryLog(emaillogs.NewRepository(pool))

	workerCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		notifier.Run(workerCtx)
		close(done)
	}()
	logger.Info("worker started", zap.String("queue", queue.QueuePasses))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	select {
	case <-done:
	case <-time.After(queue.DequeueTimeout + 2*time.Second):
		logger.Warn("worker did not stop in time")
	}
	logger.Info("worker stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
