package revalidate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
)

// Message announces that cached content under Path is stale. Origin identifies the
// publishing instance so it can ignore its own messages.
type Message struct {
	Path      string    `json:"path"`
	Origin    string    `json:"origin"`
	Timestamp time.Time `json:"timestamp"`
}

// AMQPBroadcaster publishes revalidations on a fanout exchange and consumes them through
// a private queue, so every API instance sees every message. A dropped connection is
// redialled on the next Publish or Subscribe.
type AMQPBroadcaster struct {
	url      string
	exchange string
	origin   string

	mu      sync.RWMutex
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

func NewAMQPBroadcaster(url, exchange string) (*AMQPBroadcaster, error) {
	b := &AMQPBroadcaster{url: url, exchange: exchange, origin: uuid.NewString()}

	if err := b.connect(); err != nil {
		return nil, err
	}

	return b, nil
}

// connect dials a new connection and channel unless the current ones are still open.
func (b *AMQPBroadcaster) connect() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn != nil && !b.conn.IsClosed() && b.channel != nil && !b.channel.IsClosed() {
		return nil
	}

	b.closeLocked()

	conn, err := amqp091.Dial(b.url)
	if err != nil {
		return fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		b.exchange, // name
		"fanout",   // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()

		return fmt.Errorf("declare exchange: %w", err)
	}

	b.conn, b.channel = conn, channel

	return nil
}

func (b *AMQPBroadcaster) current() *amqp091.Channel {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.channel
}

func (b *AMQPBroadcaster) Publish(ctx context.Context, path string) error {
	if err := b.connect(); err != nil {
		return err
	}

	body, err := json.Marshal(Message{Path: path, Origin: b.origin, Timestamp: time.Now()})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = b.current().PublishWithContext(
		ctx,
		b.exchange, // exchange
		"",         // routing key, ignored by fanout
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Timestamp:   time.Now(),
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	return nil
}

// Subscribe applies revalidations published by other instances until ctx is done or the
// broker connection drops.
func (b *AMQPBroadcaster) Subscribe(ctx context.Context, apply func(ctx context.Context, path string)) error {
	if err := b.connect(); err != nil {
		return err
	}

	channel := b.current()

	queue, err := channel.QueueDeclare(
		"",    // server-named
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := channel.QueueBind(queue.Name, "", b.exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	deliveries, err := channel.Consume(
		queue.Name, // queue
		"",         // consumer
		true,       // auto-ack
		true,       // exclusive
		false,      // no-local
		false,      // no-wait
		nil,        // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}

			msg, err := decodeMessage(d.Body)
			if err != nil {
				slog.ErrorContext(ctx, "failed to decode revalidation", "error", err)
				continue
			}

			if msg.Origin == b.origin {
				continue
			}

			apply(ctx, msg.Path)
		}
	}
}

func (b *AMQPBroadcaster) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.closeLocked()
}

func (b *AMQPBroadcaster) closeLocked() error {
	var err error

	if b.channel != nil && !b.channel.IsClosed() {
		b.channel.Close()
	}

	if b.conn != nil && !b.conn.IsClosed() {
		err = b.conn.Close()
	}

	b.conn, b.channel = nil, nil

	return err
}

func decodeMessage(body []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(body, &msg); err != nil {
		return Message{}, fmt.Errorf("unmarshal message: %w", err)
	}

	if msg.Path == "" {
		return Message{}, fmt.Errorf("message has no path")
	}

	return msg, nil
}
