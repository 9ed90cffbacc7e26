package emaillogs

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tws-events/checkin/internal/models"
	"github.com/tws-events/checkin/pkg/database"
)

// Repository handles email_logs persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an email logs repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Record inserts a delivery attempt and fills in ID and CreatedAt.
func (r *Repository) Record(ctx context.Context, el *models.EmailLog) error {
	const q = `INSERT INTO email_logs (registration_id, email_type, recipient_email, subject, status, message_id, attempt, error_message)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, NULLIF($6, ''), $7, NULLIF($8, ''))
		RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, q,
		el.RegistrationID, el.EmailType, el.RecipientEmail, el.Subject, el.Status, el.MessageID, el.Attempt, el.ErrorMessage,
	).Scan(&el.ID, &el.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert email log: %w", database.Translate(err))
	}
	return nil
}

// ListByRegistration returns delivery attempts for a pass, newest first.
func (r *Repository) ListByRegistration(ctx context.Context, registrationID string) ([]models.EmailLog, error) {
	const q = `SELECT id, registration_id, email_type, recipient_email, subject, status, message_id, attempt, error_message, created_at
		FROM email_logs
		WHERE registration_id = $1
		ORDER BY created_at DESC, id`
	rows, err := r.pool.Query(ctx, q, registrationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []models.EmailLog{}
	for rows.Next() {
		var el models.EmailLog
		var subject, messageID, errMsg *string
		if err := rows.Scan(&el.ID, &el.RegistrationID, &el.EmailType, &el.RecipientEmail, &subject, &el.Status, &messageID, &el.Attempt, &errMsg, &el.CreatedAt); err != nil {
			return nil, err
		}
		if subject != nil {
			el.Subject = *subject
		}
		if messageID != nil {
			el.MessageID = *messageID
		}
		if errMsg != nil {
			el.ErrorMessage = *errMsg
		}
		list = append(list, el)
	}
	return list, rows.Err()
}
