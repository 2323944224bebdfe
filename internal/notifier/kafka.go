package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is satisfied by *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Kafka writes notifications to a topic, keyed by recipient so that one
// customer's messages stay ordered.
type Kafka struct {
	writer MessageWriter
}

var _ Notifier = (*Kafka)(nil)

// NewKafkaWriter builds the writer used in production.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}
}

// NewKafka creates a Kafka notifier.
func NewKafka(writer MessageWriter) *Kafka {
	return &Kafka{writer: writer}
}

// Notify implements Notifier.
func (n *Kafka) Notify(ctx context.Context, msg Message) error {
	body, err := encode(msg)
	if err != nil {
		return err
	}
	err = n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.To),
		Value: body,
		Time:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to write notification: %w", err)
	}
	return nil
}
