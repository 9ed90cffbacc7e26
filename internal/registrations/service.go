package registrations

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/tws-events/checkin/internal/models"
	"github.com/tws-events/checkin/internal/passid"
	"github.com/tws-events/checkin/pkg/database"
)

var (
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateEmail is returned when the email already holds a registration.
	ErrDuplicateEmail = errors.New("email already registered")
)

const (
	msgFieldsRequired = "All fields are required."
	msgInvalidEmail   = "Please enter a valid email address."
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// ValidationError describes missing or malformed input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Store is the registration persistence the service needs.
type Store interface {
	Create(ctx context.Context, reg *models.Registration) error
	GetByEmail(ctx context.Context, email string) (*models.Registration, error)
	GetByRegistrationID(ctx context.Context, registrationID string) (*models.Registration, error)
	RegistrationIDExists(ctx context.Context, registrationID string) (bool, error)
	List(ctx context.Context) ([]models.Registration, error)
}

// Notifier is told about every newly issued pass.
type Notifier interface {
	PassIssued(ctx context.Context, reg *models.Registration) error
}

// RegisterInput is the raw signup data.
type RegisterInput struct {
	FullName    string
	Email       string
	Phone       string
	Institution string
}

// Service implements registration and pass verification.
type Service struct {
	store    Store
	ids      *passid.Generator
	cache    *PassCache
	notifier Notifier
	logger   *zap.Logger
}

// NewService creates a registration service. cache may be nil.
func NewService(store Store, cache *PassCache, logger *zap.Logger, opts ...passid.Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		ids:    passid.NewGenerator(store.RegistrationIDExists, opts...),
		cache:  cache,
		logger: logger,
	}
}

// SetNotifier enables pass notifications after registration.
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

// Register validates input, issues a fresh pass id and stores the registration.
//
// The email pre-check only produces a friendlier error; the unique index on
// email is what actually rejects duplicates.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.Registration, error) {
	reg, err := normalize(in)
	if err != nil {
		return nil, err
	}

	_, err = s.store.GetByEmail(ctx, reg.Email)
	switch {
	case err == nil:
		return nil, ErrDuplicateEmail
	case !errors.Is(err, database.ErrNotFound):
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	for attempt := 1; ; attempt++ {
		id, err := s.ids.Generate(ctx)
		if err != nil {
			return nil, err
		}
		reg.RegistrationID = id

		err = s.store.Create(ctx, reg)
		if err == nil {
			break
		}
		switch database.ConstraintName(err) {
		case ConstraintEmail:
			return nil, ErrDuplicateEmail
		case ConstraintRegistrationID:
			// Another request took the id between the check and our insert.
			if attempt < passid.MaxAttempts {
				s.logger.Warn("pass id collided on insert", zap.String("registration_id", id), zap.Int("attempt", attempt))
				continue
			}
			return nil, passid.ErrGenerationExhausted
		}
		return nil, fmt.Errorf("create registration: %w", err)
	}

	s.cache.Set(reg)
	if s.notifier != nil {
		if err := s.notifier.PassIssued(ctx, reg); err != nil {
			s.logger.Warn("pass notification not queued", zap.Error(err), zap.String("registration_id", reg.RegistrationID))
		}
	}
	return reg, nil
}

// Verify returns the registration holding a pass id, or database.ErrNotFound.
func (s *Service) Verify(ctx context.Context, registrationID string) (*models.Registration, error) {
	if reg, ok := s.cache.Get(registrationID); ok {
		return reg, nil
	}
	reg, err := s.store.GetByRegistrationID(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(reg)
	return reg, nil
}

// List returns all registrations, newest first.
func (s *Service) List(ctx context.Context) ([]models.Registration, error) {
	return s.store.List(ctx)
}

func normalize(in RegisterInput) (*models.Registration, error) {
	reg := &models.Registration{
		FullName:    strings.TrimSpace(in.FullName),
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:       strings.TrimSpace(in.Phone),
		Institution: strings.TrimSpace(in.Institution),
	}
	for _, f := range []struct{ name, value string }{
		{"fullName", reg.FullName},
		{"email", reg.Email},
		{"phone", reg.Phone},
		{"institution", reg.Institution},
	} {
		if f.value == "" {
			return nil, &ValidationError{Field: f.name, Message: msgFieldsRequired}
		}
	}
	if !emailPattern.MatchString(reg.Email) {
		return nil, &ValidationError{Field: "email", Message: msgInvalidEmail}
	}
	return reg, nil
}
