package attendance

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tws-events/checkin/internal/models"
	"github.com/tws-events/checkin/pkg/database"
)

// ConstraintRegistrationID is the unique index allowing one check-in per pass.
const ConstraintRegistrationID = "attendance_registration_id_key"

// Repository handles attendance persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an attendance repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a check-in. A second check-in for the same pass returns a
// *database.ConstraintError.
func (r *Repository) Create(ctx context.Context, a *models.Attendance) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO attendance (registration_id, full_name) VALUES ($1, $2) RETURNING id, checked_in_at`,
		a.RegistrationID, a.FullName).Scan(&a.ID, &a.CheckedInAt)
	if err != nil {
		return fmt.Errorf("insert attendance: %w", database.Translate(err))
	}
	return nil
}

// GetByRegistrationID returns the check-in for a pass, or database.ErrNotFound.
func (r *Repository) GetByRegistrationID(ctx context.Context, registrationID string) (*models.Attendance, error) {
	var a models.Attendance
	err := r.pool.QueryRow(ctx,
		`SELECT id, registration_id, full_name, checked_in_at FROM attendance WHERE registration_id = $1`,
		registrationID).Scan(&a.ID, &a.RegistrationID, &a.FullName, &a.CheckedInAt)
	if err != nil {
		return nil, database.Translate(err)
	}
	return &a, nil
}

// List returns all check-ins, most recent first.
func (r *Repository) List(ctx context.Context) ([]models.Attendance, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, registration_id, full_name, checked_in_at FROM attendance ORDER BY checked_in_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []models.Attendance{}
	for rows.Next() {
		var a models.Attendance
		if err := rows.Scan(&a.ID, &a.RegistrationID, &a.FullName, &a.CheckedInAt); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
