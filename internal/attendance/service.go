package attendance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tws-events/checkin/internal/models"
	"github.com/tws-events/checkin/pkg/database"
)

// ErrMissingFields is returned when the pass id or name is empty.
var ErrMissingFields = errors.New("registration id and full name are required")

// Store is the attendance persistence the service needs.
type Store interface {
	Create(ctx context.Context, a *models.Attendance) error
	GetByRegistrationID(ctx context.Context, registrationID string) (*models.Attendance, error)
	List(ctx context.Context) ([]models.Attendance, error)
}

// Result is the outcome of a check-in. AlreadyMarked is an acknowledgment, not a failure.
type Result struct {
	Attendance    *models.Attendance
	AlreadyMarked bool
}

// Service records check-ins.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService creates an attendance service.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// Mark checks in a pass at most once. Repeated calls return the first
// check-in with AlreadyMarked set. The pass id is not checked against
// registrations: check-ins for unknown passes are accepted.
func (s *Service) Mark(ctx context.Context, registrationID, fullName string) (*Result, error) {
	registrationID = strings.TrimSpace(registrationID)
	fullName = strings.TrimSpace(fullName)
	if registrationID == "" || fullName == "" {
		return nil, ErrMissingFields
	}

	existing, err := s.store.GetByRegistrationID(ctx, registrationID)
	switch {
	case err == nil:
		return &Result{Attendance: existing, AlreadyMarked: true}, nil
	case !errors.Is(err, database.ErrNotFound):
		return nil, fmt.Errorf("lookup attendance: %w", err)
	}

	a := &models.Attendance{RegistrationID: registrationID, FullName: fullName}
	if err := s.store.Create(ctx, a); err != nil {
		if !errors.Is(err, database.ErrConstraintViolation) {
			return nil, err
		}
		// Lost a race with a concurrent check-in for the same pass.
		existing, lookupErr := s.store.GetByRegistrationID(ctx, registrationID)
		if lookupErr != nil {
			return nil, fmt.Errorf("reload attendance after conflict: %w", lookupErr)
		}
		return &Result{Attendance: existing, AlreadyMarked: true}, nil
	}

	s.logger.Info("attendance marked", zap.String("registration_id", registrationID), zap.String("full_name", fullName))
	return &Result{Attendance: a}, nil
}

// List returns all check-ins, most recent first.
func (s *Service) List(ctx context.Context) ([]models.Attendance, error) {
	return s.store.List(ctx)
}
