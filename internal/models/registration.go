package models

import (
	"time"

	"github.com/google/uuid"
)

// Registration is one attendee's signup and the pass identifier issued for it.
// Rows are created once and never updated.
type Registration struct {
	ID             uuid.UUID `json:"-"`
	FullName       string    `json:"fullName"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Institution    string    `json:"institution"`
	RegistrationID string    `json:"registrationId"`
	RegisteredAt   time.Time `json:"registeredAt"`
}
