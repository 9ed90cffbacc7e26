package attendance

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tws-events/checkin/pkg/response"
)

const msgFieldsRequired = "Registration ID and Full Name are required."

// MarkRequest is the body for POST /api/mark-attendance.
type MarkRequest struct {
	RegistrationID string `json:"registrationId" form:"registrationId" binding:"required"`
	FullName       string `json:"fullName" form:"fullName" binding:"required"`
}

// Handler handles check-in HTTP endpoints.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates an attendance handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

// Mark handles POST /api/mark-attendance: 201 on first check-in, 200 on repeats.
func (h *Handler) Mark(c *gin.Context) {
	var req MarkRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, msgFieldsRequired)
		return
	}

	res, err := h.svc.Mark(c.Request.Context(), req.RegistrationID, req.FullName)
	if err != nil {
		if errors.Is(err, ErrMissingFields) {
			response.BadRequest(c, msgFieldsRequired)
			return
		}
		h.logger.Error("mark attendance failed", zap.Error(err), zap.String("registration_id", req.RegistrationID))
		response.Internal(c, "An internal server error occurred while marking attendance.")
		return
	}

	if res.AlreadyMarked {
		response.OKMessage(c, "Attendance already marked for this individual.")
		return
	}
	response.CreatedMessage(c, fmt.Sprintf("Attendance successfully marked for %s.", res.Attendance.FullName))
}
