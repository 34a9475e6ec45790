package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"aetherpix/internal/config"
	"aetherpix/internal/core/domain"
	"aetherpix/internal/core/port"

	kafkago "github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher publishes derivative outcomes to a Kafka topic
type Publisher struct {
	writer messageWriter
	topic  string
	logger *slog.Logger
}

var _ port.EventPublisher = (*Publisher)(nil)

// NewPublisher returns Publisher
func NewPublisher(cfg config.KafkaConfig, logger *slog.Logger) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka: brokers list is empty")
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka: topic is empty")
	}

	writer := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		WriteTimeout:           10 * time.Second,
		AllowAutoTopicCreation: true,
	}
	return newPublisher(writer, cfg.Topic, logger), nil
}

func newPublisher(writer messageWriter, topic string, logger *slog.Logger) *Publisher {
	return &Publisher{writer: writer, topic: topic, logger: logger}
}

// PublishDerivativeEvent writes event keyed by the original key so that events of one
// image stay ordered within a partition
func (p *Publisher) PublishDerivativeEvent(ctx context.Context, event domain.DerivativeEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka marshal: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(event.OriginalKey),
		Value: value,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("kafka publish: %w", err)
	}

	p.logger.Debug("derivative event published",
		slog.String("topic", p.topic),
		slog.String("type", string(event.Type)),
		slog.String("job_key", event.OriginalKey))
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops every event, used when no broker is configured
type NoopPublisher struct{}

var _ port.EventPublisher = NoopPublisher{}

func (NoopPublisher) PublishDerivativeEvent(context.Context, domain.DerivativeEvent) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }
