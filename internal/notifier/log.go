package notifier

import (
	"context"

	"go.uber.org/zap"
)

// Log only records the message. It is the terminal sink of the RabbitMQ
// consumer and a stand-in transport for local runs.
type Log struct {
	lg *zap.Logger
}

var _ Notifier = (*Log)(nil)

// NewLog creates a Log notifier.
func NewLog(lg *zap.Logger) *Log {
	return &Log{lg: lg}
}

// Notify implements Notifier.
func (n *Log) Notify(_ context.Context, msg Message) error {
	n.lg.Info("notification",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("body_bytes", len(msg.Body)),
	)
	return nil
}
