// Package admin renders the read-only registration and attendance listings.
package admin

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tws-events/checkin/internal/attendance"
	"github.com/tws-events/checkin/internal/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Templates parses the admin page templates for gin's HTML renderer.
func Templates() *template.Template {
	return template.Must(template.New("admin").Funcs(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
		"formatTime": func(t time.Time) string {
			return t.Local().Format("02 Jan 2006, 15:04:05")
		},
	}).ParseFS(templatesFS, "templates/*.html"))
}

// RegistrationLister lists registrations, newest first.
type RegistrationLister interface {
	List(ctx context.Context) ([]models.Registration, error)
}

// AttendanceLister lists check-ins, newest first.
type AttendanceLister interface {
	List(ctx context.Context) ([]models.Attendance, error)
}

// Handler serves the admin pages.
type Handler struct {
	registrations RegistrationLister
	attendance    AttendanceLister
	resolver      *attendance.Resolver
	logger        *zap.Logger
}

// NewHandler creates an admin handler.
func NewHandler(registrations RegistrationLister, att AttendanceLister, resolver *attendance.Resolver, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{registrations: registrations, attendance: att, resolver: resolver, logger: logger}
}

// Registrations handles GET /admin/registrations.
func (h *Handler) Registrations(c *gin.Context) {
	list, err := h.registrations.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list registrations failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "Error fetching registration data.")
		return
	}
	c.HTML(http.StatusOK, "registrations.html", gin.H{"Registrations": list})
}

// Attendance handles GET /admin/attendance.
func (h *Handler) Attendance(c *gin.Context) {
	ctx := c.Request.Context()
	list, err := h.attendance.List(ctx)
	if err != nil {
		h.logger.Error("list attendance failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "Error fetching attendance data.")
		return
	}
	attendees, err := h.resolver.ResolveAll(ctx, list)
	if err != nil {
		h.logger.Error("resolve attendees failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "Error fetching attendance data.")
		return
	}
	c.HTML(http.StatusOK, "attendance.html", gin.H{"Attendees": attendees})
}
