package models

import (
	"time"

	"github.com/google/uuid"
)

// EmailTypePassConfirmation is the only email the worker sends today.
const EmailTypePassConfirmation = "pass_confirmation"

// EmailLogStatus for delivery.
const (
	EmailLogStatusSent   = "sent"
	EmailLogStatusFailed = "failed"
)

// EmailLog records one delivery attempt for a pass.
type EmailLog struct {
	ID             uuid.UUID `json:"id"`
	RegistrationID string    `json:"registrationId"`
	EmailType      string    `json:"emailType"`
	RecipientEmail string    `json:"recipientEmail"`
	Subject        string    `json:"subject,omitempty"`
	Status         string    `json:"status"`
	MessageID      string    `json:"messageId,omitempty"`
	Attempt        int       `json:"attempt"`
	ErrorMessage   string    `json:"errorMessage,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}
