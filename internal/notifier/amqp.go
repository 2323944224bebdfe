package notifier

import (
	"context"
	"fmt"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// Publisher is the slice of the RabbitMQ client the notifier needs.
type Publisher interface {
	Publish(queue string, body []byte) error
}

// AMQP publishes notifications as JSON onto a RabbitMQ queue.
type AMQP struct {
	publisher Publisher
	queue     string
}

var _ Notifier = (*AMQP)(nil)

// NewAMQP creates a notifier publishing to queue.
func NewAMQP(publisher Publisher, queue string) *AMQP {
	return &AMQP{publisher: publisher, queue: queue}
}

// Notify implements Notifier.
func (n *AMQP) Notify(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := encode(msg)
	if err != nil {
		return err
	}
	if err := n.publisher.Publish(n.queue, body); err != nil {
		return fmt.Errorf("failed to publish notification to %s: %w", n.queue, err)
	}
	return nil
}

// DeliveryHandler returns a consumer callback that decodes queued
// notifications and passes them to sink. Undecodable messages are dropped
// (acknowledged) so they are not redelivered forever.
func DeliveryHandler(lg *zap.Logger, sink Notifier) func(amqp.Delivery) error {
	return func(d amqp.Delivery) error {
		msg, err := Decode(d.Body)
		if err != nil {
			lg.Warn("dropping malformed notification", zap.Uint64("delivery_tag", d.DeliveryTag), zap.Error(err))
			return nil
		}
		return sink.Notify(context.Background(), msg)
	}
}
