package models

import (
	"time"

	"github.com/google/uuid"
)

// Attendance is a single check-in. RegistrationID refers to a Registration by
// value only; the referenced registration may not exist.
type Attendance struct {
	ID             uuid.UUID `json:"-"`
	RegistrationID string    `json:"registrationId"`
	FullName       string    `json:"fullName"`
	CheckedInAt    time.Time `json:"checkedInAt"`
}
