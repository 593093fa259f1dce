// Package worker drains the alert queue and delivers each email.
package worker

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"moneyminder/internal/amqp"
	"moneyminder/internal/log"
	"moneyminder/internal/notify"
)

// Consumer feeds queued alerts to a handler until ctx is done.
type Consumer interface {
	ConsumeAlerts(ctx context.Context, handler amqp.Handler) error
}

// AlertWorker delivers queued alert emails through a Sender.
type AlertWorker struct {
	sender notify.Sender
	logger *log.Logger

	delivered atomic.Int64
	failed    atomic.Int64
}

func NewAlertWorker(sender notify.Sender, logger *log.Logger) *AlertWorker {
	return &AlertWorker{
		sender: sender,
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// HandleAlertMessage sends one queued email. Stale messages are still
// delivered; the age is only logged.
func (w *AlertWorker) HandleAlertMessage(ctx context.Context, msg *amqp.BudgetAlertMessage) error {
	started := time.Now()
	if err := w.sender.Send(ctx, msg.Email); err != nil {
		w.failed.Add(1)
		return fmt.Errorf("deliver alert to %s: %w", msg.Email.To, err)
	}
	w.delivered.Add(1)

	fields := log.NewFields().
		WithOperation(log.OpNotify).
		WithDuration(time.Since(started))
	fields[log.FieldRecipient] = msg.Email.To
	if !msg.Timestamp.IsZero() {
		fields["queued_for"] = time.Since(msg.Timestamp).Round(time.Millisecond).String()
	}
	w.logger.InfoContext(ctx, "Alert delivered", fields.ToSlice()...)
	return nil
}

// Run consumes until ctx is cancelled.
func (w *AlertWorker) Run(ctx context.Context, c Consumer) error {
	w.logger.InfoContext(ctx, "Alert worker started")
	err := c.ConsumeAlerts(ctx, w.HandleAlertMessage)
	w.logger.InfoContext(ctx, "Alert worker stopped",
		"delivered", w.delivered.Load(),
		"failed", w.failed.Load())
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// Stats reports delivered and failed counts since start.
func (w *AlertWorker) Stats() (delivered, failed int64) {
	return w.delivered.Load(), w.failed.Load()
}
