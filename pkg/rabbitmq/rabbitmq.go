package rabbitmq

import (
	"fmt"
	"sync"
	"time"

	amqp "github.com/streadway/amqp"
)

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	// amqp.Channel is not safe for concurrent publishes.
	mu sync.Mutex
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
	// Queues are declared durable when the client connects.
	Queues []string
}

// NewClient creates a new RabbitMQ client.
// It connects to RabbitMQ, sets up a channel and declares the configured queues.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	for _, q := range cfg.Queues {
		if err := declare(ch, q); err != nil {
			ch.Close()
			conn.Close()
			return nil, err
		}
	}

	return &Client{
		conn:    conn,
		channel: ch,
	}, nil
}

func declare(ch *amqp.Channel, queue string) error {
	_, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare %s: %w", queue, err)
	}
	return nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// Publish sends a persistent JSON message to queue through the default exchange.
func (c *Client) Publish(queue string, body []byte) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.channel.Publish(
		"",    // default exchange
		queue, // routing key: the queue name
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// Consume registers a manual-ack consumer on queue and processes deliveries
// on a goroutine until the channel closes. A handler error nacks without
// requeue so a poisoned message cannot loop.
func (c *Client) Consume(queue string, handler func(msg amqp.Delivery) error, onError func(tag uint64, err error)) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	if err := declare(c.channel, queue); err != nil {
		return err
	}

	msgs, err := c.channel.Consume(
		queue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for msg := range msgs {
			if err := handler(msg); err != nil {
				onError(msg.DeliveryTag, err)
				if nackErr := msg.Nack(false, false); nackErr != nil {
					onError(msg.DeliveryTag, nackErr)
				}
				continue
			}
			if ackErr := msg.Ack(false); ackErr != nil {
				onError(msg.DeliveryTag, ackErr)
			}
		}
	}()

	return nil
}
