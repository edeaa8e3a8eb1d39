package kafka

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/ds124wfegd/WB_L3/imageeditor/internal/entity"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type Producer interface {
	Publish(ctx context.Context, message interface{}) error
	Close() error
}

type kafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer dials the brokers once to make sure the topic exists.
// When kafka is unreachable it falls back to a producer that only logs.
func NewProducer(brokers, topic string) Producer {
	addrs := strings.Split(brokers, ",")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := kafka.DialContext(ctx, "tcp", addrs[0])
	if err != nil {
		logrus.WithError(err).Warn("Kafka connection failed, notifications are logged only")
		return &mockProducer{topic: topic}
	}
	defer conn.Close()

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	if err != nil {
		logrus.WithError(err).Debug("Could not create topic (might already exist)")
	}

	logrus.WithField("brokers", brokers).Info("Connected to Kafka")
	return &kafkaProducer{
		topic: topic,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(addrs...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *kafkaProducer) Publish(ctx context.Context, message interface{}) error {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   messageKey(message),
		Value: messageBytes,
		Time:  time.Now(),
	}
	if n, ok := message.(entity.Notification); ok {
		msg.Headers = []kafka.Header{{Key: "level", Value: []byte(n.Level)}}
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		logrus.WithError(err).WithField("topic", p.topic).Error("Failed to write message to Kafka")
		return err
	}
	return nil
}

// messageKey keeps notifications of one field on one partition, in order.
func messageKey(message interface{}) []byte {
	if n, ok := message.(entity.Notification); ok && n.FieldKey != "" {
		return []byte(n.FieldKey)
	}
	return []byte("image-editor")
}

func (p *kafkaProducer) Close() error {
	return p.writer.Close()
}

type mockProducer struct {
	topic string
}

func (m *mockProducer) Publish(_ context.Context, message interface{}) error {
	logrus.WithFields(logrus.Fields{"topic": m.topic, "message": message}).Info("notification")
	return nil
}

func (m *mockProducer) Close() error {
	return nil
}
