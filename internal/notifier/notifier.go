// Package notifier delivers customer-facing messages such as order
// confirmations to a message transport. Delivery is best effort: callers log
// failures and carry on.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Message is a single e-mail style notification.
type Message struct {
	From    string    `json:"from,omitempty"`
	To      string    `json:"to"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	SentAt  time.Time `json:"sent_at"`
}

// Notifier hands a message to a delivery channel.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// Func adapts a function to Notifier.
type Func func(ctx context.Context, msg Message) error

// Notify implements Notifier.
func (f Func) Notify(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}

func encode(msg Message) ([]byte, error) {
	if msg.SentAt.IsZero() {
		msg.SentAt = time.Now().UTC()
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notification: %w", err)
	}
	return body, nil
}

// Decode parses a message produced by one of the transports.
func Decode(body []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(body, &msg); err != nil {
		return Message{}, fmt.Errorf("failed to unmarshal notification: %w", err)
	}
	if msg.To == "" {
		return Message{}, fmt.Errorf("notification has no recipient")
	}
	return msg, nil
}
