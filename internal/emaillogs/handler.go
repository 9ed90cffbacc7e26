package emaillogs

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tws-events/checkin/internal/models"
	"github.com/tws-events/checkin/internal/passid"
	"github.com/tws-events/checkin/pkg/response"
)

// Lister reads delivery attempts for a pass.
type Lister interface {
	ListByRegistration(ctx context.Context, registrationID string) ([]models.EmailLog, error)
}

// Handler handles email log HTTP endpoints.
type Handler struct {
	repo   Lister
	logger *zap.Logger
}

// NewHandler creates an email logs handler.
func NewHandler(repo Lister, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// ListByRegistration handles GET /admin/registrations/:id/emails.
func (h *Handler) ListByRegistration(c *gin.Context) {
	id := c.Param("id")
	if !passid.Valid(id) {
		response.BadRequest(c, "Invalid registration ID.")
		return
	}
	logs, err := h.repo.ListByRegistration(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("list email logs", zap.Error(err), zap.String("registration_id", id))
		response.Internal(c, "Error fetching email logs.")
		return
	}
	response.OK(c, logs)
}
