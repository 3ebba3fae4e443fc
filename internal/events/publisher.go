package events

import (
	"context"
	"fmt"
	"time"

	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/models"
	"github.com/segmentio/kafka-go"
)

// Publisher delivers one outbox message. A nil error means the message may
// be marked as published.
type Publisher interface {
	Publish(ctx context.Context, msg *models.OutboxMessage) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	w messageWriter
}

// NewKafkaPublisher writes synchronously and waits for all in-sync replicas,
// so the relay only marks rows the brokers have accepted.
func NewKafkaPublisher(brokers []string) *KafkaPublisher {
	return &KafkaPublisher{
		w: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
			BatchTimeout:           10 * time.Millisecond,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, msg *models.OutboxMessage) error {
	headers := make([]kafka.Header, 0, len(msg.Headers))
	for k, v := range msg.Headers {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}

	err := p.w.WriteMessages(ctx, kafka.Message{
		Topic:   msg.Topic,
		Key:     []byte(msg.Key),
		Value:   msg.Payload,
		Headers: headers,
		Time:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to write message %d to %s: %w", msg.ID, msg.Topic, err)
	}

	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

// Handler consumes the raw value of one event.
type Handler func(ctx context.Context, value []byte) error

// LocalPublisher delivers events in-process when no broker is configured.
type LocalPublisher struct {
	handlers map[string]Handler
}

func NewLocalPublisher(handlers map[string]Handler) *LocalPublisher {
	return &LocalPublisher{handlers: handlers}
}

func (p *LocalPublisher) Publish(ctx context.Context, msg *models.OutboxMessage) error {
	h, ok := p.handlers[msg.Topic]
	if !ok {
		return fmt.Errorf("no local handler for topic %s", msg.Topic)
	}

	return h(ctx, msg.Payload)
}

func (p *LocalPublisher) Close() error {
	return nil
}
