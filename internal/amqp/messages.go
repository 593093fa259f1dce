package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"moneyminder/internal/notify"
)

// BudgetAlertMessage carries a fully rendered alert email to the worker that
// delivers it.
type BudgetAlertMessage struct {
	Email     notify.Email `json:"email"`
	Timestamp time.Time    `json:"timestamp"`
}

func NewBudgetAlertMessage(e notify.Email) *BudgetAlertMessage {
	return &BudgetAlertMessage{
		Email:     e,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *BudgetAlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BudgetAlertMessageFromJSON decodes a message and rejects emails that could
// never be delivered.
func BudgetAlertMessageFromJSON(data []byte) (*BudgetAlertMessage, error) {
	var msg BudgetAlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Email.Validate(); err != nil {
		return nil, fmt.Errorf("invalid alert message: %w", err)
	}
	return &msg, nil
}
