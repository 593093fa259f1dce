// Package notify delivers budget alert emails.
package notify

import (
	"context"
	"errors"
	"strings"

	"moneyminder/internal/log"
)

// Email is a fully rendered message.
type Email struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html"`
}

// Validate checks the fields every sender needs.
func (e Email) Validate() error {
	if strings.TrimSpace(e.To) == "" {
		return errors.New("recipient is required")
	}
	if e.Subject == "" {
		return errors.New("subject is required")
	}
	if e.Text == "" && e.HTML == "" {
		return errors.New("email has no body")
	}
	return nil
}

// Sender delivers an email. A returned error means delivery failed.
type Sender interface {
	Send(ctx context.Context, e Email) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, e Email) error

func (f SenderFunc) Send(ctx context.Context, e Email) error { return f(ctx, e) }

// LogSender writes emails to the log instead of delivering them.
type LogSender struct {
	Logger *log.Logger
}

// NewLogSender returns a LogSender bound to logger.
func NewLogSender(logger *log.Logger) *LogSender {
	return &LogSender{Logger: logger.WithComponent(log.ComponentNotify)}
}

func (s *LogSender) Send(ctx context.Context, e Email) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.Logger.InfoContext(ctx, "Alert email",
		log.FieldRecipient, e.To,
		"subject", e.Subject,
		"body", e.Text,
	)
	return nil
}
