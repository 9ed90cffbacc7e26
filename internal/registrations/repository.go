package registrations

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tws-events/checkin/internal/models"
	"github.com/tws-events/checkin/pkg/database"
)

const (
	// ConstraintEmail is the unique index on registrations.email.
	ConstraintEmail = "registrations_email_key"
	// ConstraintRegistrationID is the unique index on registrations.registration_id.
	ConstraintRegistrationID = "registrations_registration_id_key"

	selectColumns = `id, full_name, email, phone, institution, registration_id, registered_at`
)

// Repository handles registration persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a registrations repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a registration. A collision on email or registration_id
// returns a *database.ConstraintError naming the index.
func (r *Repository) Create(ctx context.Context, reg *models.Registration) error {
	const q = `INSERT INTO registrations (full_name, email, phone, institution, registration_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, registered_at`
	err := r.pool.QueryRow(ctx, q, reg.FullName, reg.Email, reg.Phone, reg.Institution, reg.RegistrationID).
		Scan(&reg.ID, &reg.RegisteredAt)
	if err != nil {
		return fmt.Errorf("insert registration: %w", database.Translate(err))
	}
	return nil
}

// GetByEmail returns the registration holding email, or database.ErrNotFound.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.Registration, error) {
	return r.getOne(ctx, `SELECT `+selectColumns+` FROM registrations WHERE email = $1`, email)
}

// GetByRegistrationID returns the registration for a pass id, or database.ErrNotFound.
func (r *Repository) GetByRegistrationID(ctx context.Context, registrationID string) (*models.Registration, error) {
	return r.getOne(ctx, `SELECT `+selectColumns+` FROM registrations WHERE registration_id = $1`, registrationID)
}

// RegistrationIDExists reports whether a pass id is already issued.
func (r *Repository) RegistrationIDExists(ctx context.Context, registrationID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM registrations WHERE registration_id = $1)`, registrationID).Scan(&exists)
	return exists, err
}

// List returns all registrations, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Registration, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+selectColumns+` FROM registrations ORDER BY registered_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []models.Registration{}
	for rows.Next() {
		var reg models.Registration
		if err := rows.Scan(&reg.ID, &reg.FullName, &reg.Email, &reg.Phone, &reg.Institution, &reg.RegistrationID, &reg.RegisteredAt); err != nil {
			return nil, err
		}
		list = append(list, reg)
	}
	return list, rows.Err()
}

func (r *Repository) getOne(ctx context.Context, q string, arg string) (*models.Registration, error) {
	var reg models.Registration
	err := r.pool.QueryRow(ctx, q, arg).
		Scan(&reg.ID, &reg.FullName, &reg.Email, &reg.Phone, &reg.Institution, &reg.RegistrationID, &reg.RegisteredAt)
	if err != nil {
		return nil, database.Translate(err)
	}
	return &reg, nil
}
