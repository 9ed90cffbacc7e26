package registrations

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tws-events/checkin/pkg/database"
	"github.com/tws-events/checkin/pkg/response"
)

// RegisterRequest is the body for POST /api/register (JSON or form encoded).
type RegisterRequest struct {
	FullName    string `json:"fullName" form:"fullName" binding:"required"`
	Email       string `json:"email" form:"email" binding:"required"`
	Phone       string `json:"phone" form:"phone" binding:"required"`
	Institution string `json:"institution" form:"institution" binding:"required"`
}

// RegisterResponse is returned on a successful registration.
type RegisterResponse struct {
	Message        string `json:"message"`
	Name           string `json:"name"`
	RegistrationID string `json:"registrationId"`
}

// PassResponse is returned by GET /api/verify/:id.
type PassResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Institution string `json:"institution"`
}

// Handler handles registration HTTP endpoints.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates a registrations handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

// Register handles POST /api/register. Issues a pass id for a new attendee.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, msgFieldsRequired)
		return
	}

	reg, err := h.svc.Register(c.Request.Context(), RegisterInput{
		FullName:    req.FullName,
		Email:       req.Email,
		Phone:       req.Phone,
		Institution: req.Institution,
	})
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			response.BadRequest(c, verr.Message)
		case errors.Is(err, ErrDuplicateEmail):
			response.Conflict(c, "This email address has already been registered.")
		case errors.Is(err, database.ErrConstraintViolation):
			response.Conflict(c, "This registration conflicts with an existing one.")
		default:
			h.logger.Error("register failed", zap.Error(err))
			response.Internal(c, "An internal server error occurred.")
		}
		return
	}

	h.logger.Info("registration created", zap.String("registration_id", reg.RegistrationID))
	response.Created(c, RegisterResponse{
		Message:        "Registration successful!",
		Name:           reg.FullName,
		RegistrationID: reg.RegistrationID,
	})
}

// Verify handles GET /api/verify/:id.
func (h *Handler) Verify(c *gin.Context) {
	reg, err := h.svc.Verify(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			response.NotFound(c, "Invalid or unregistered pass.")
			return
		}
		h.logger.Error("verify failed", zap.Error(err), zap.String("registration_id", c.Param("id")))
		response.Internal(c, "An internal server error occurred.")
		return
	}
	response.OK(c, PassResponse{
		ID:          reg.RegistrationID,
		Name:        reg.FullName,
		Email:       reg.Email,
		Phone:       reg.Phone,
		Institution: reg.Institution,
	})
}
