package rabbitMQ

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ds124wfegd/WB_L3/imageeditor/internal/entity"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

type RabbitMQConfig struct {
	URL       string
	QueueName string
}

// RabbitMQ publishes field notifications to one durable queue.
type RabbitMQ struct {
	conn *amqp.Connection

	mu      sync.Mutex
	channel *amqp.Channel
	queue   string
}

func NewRabbitMQ(config RabbitMQConfig) (*RabbitMQ, error) {
	if config.QueueName == "" {
		return nil, errors.New("rabbitMQ queue name is empty")
	}

	conn, err := amqp.Dial(config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	// durable, not auto-deleted, not exclusive
	if _, err := channel.QueueDeclare(config.QueueName, true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", config.QueueName, err)
	}

	return &RabbitMQ{conn: conn, channel: channel, queue: config.QueueName}, nil
}

// newPublishing encodes message as JSON; notifications carry their level as the message type.
func newPublishing(message interface{}) (amqp.Publishing, error) {
	body, err := json.Marshal(message)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal message: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.New().String(),
		Timestamp:    time.Now(),
	}

	if n, ok := message.(entity.Notification); ok {
		msg.Type = string(n.Level)
		msg.Timestamp = n.Time
		msg.Headers = amqp.Table{"field": n.FieldKey}
	}
	return msg, nil
}

func (r *RabbitMQ) Publish(ctx context.Context, message interface{}) error {
	msg, err := newPublishing(message)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.channel == nil || r.channel.IsClosed() {
		return amqp.ErrClosed
	}
	if err := r.channel.PublishWithContext(ctx, "", r.queue, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", r.queue, err)
	}
	return nil
}

func (r *RabbitMQ) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	if r.channel != nil {
		errs = append(errs, r.channel.Close())
		r.channel = nil
	}
	if r.conn != nil {
		errs = append(errs, r.conn.Close())
		r.conn = nil
	}
	return errors.Join(errs...)
}
