package amqp

import (
	"context"

	"moneyminder/internal/notify"
)

// Publisher queues alert messages.
type Publisher interface {
	PublishAlert(ctx context.Context, msg *BudgetAlertMessage) error
}

// QueueSender implements notify.Sender by handing the email to the queue.
// Delivery happens in the alert worker.
type QueueSender struct {
	pub Publisher
}

var _ notify.Sender = (*QueueSender)(nil)

func NewQueueSender(pub Publisher) *QueueSender {
	return &QueueSender{pub: pub}
}

func (s *QueueSender) Send(ctx context.Context, e notify.Email) error {
	if err := e.Validate(); err != nil {
		return err
	}
	return s.pub.PublishAlert(ctx, NewBudgetAlertMessage(e))
}
