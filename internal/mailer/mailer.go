// Package mailer delivers pass confirmation emails.
package mailer

import (
	"context"

	"go.uber.org/zap"
)

// Message is one outgoing email.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer sends a message and returns the provider message id.
type Mailer interface {
	Send(ctx context.Context, msg *Message) (string, error)
}

// LogMailer writes messages to the log instead of delivering them. It is used
// when no email provider is configured.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a log-only mailer.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, msg *Message) (string, error) {
	m.logger.Info("email not delivered (no provider configured)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return "", nil
}
