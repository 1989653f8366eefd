// Package kafka carries integration events over Kafka topics.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/Apurer/catering-api/internal/shared/events"
)

// DefaultTopic receives every catering integration event.
const DefaultTopic = "catering.events"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher writes events as JSON keyed by aggregate id, so events of one
// order stay ordered within a partition.
type Publisher struct {
	writer messageWriter
}

func NewPublisher(brokers []string, topic string) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	if topic == "" {
		topic = DefaultTopic
	}
	return &Publisher{writer: &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}}, nil
}

func (p *Publisher) Publish(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.Type, err)
	}
	return p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(event.Key()),
		Value: payload,
		Headers: []kafkago.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

var _ events.Publisher = (*Publisher)(nil)

// Brokers splits a comma separated broker list.
func Brokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// PublisherFromEnv builds a publisher from KAFKA_BROKERS and KAFKA_TOPIC. It
// returns nil and logs when no broker is configured.
func PublisherFromEnv(logger *slog.Logger) (*Publisher, func()) {
	brokers := Brokers(os.Getenv("KAFKA_BROKERS"))
	if len(brokers) == 0 {
		if logger != nil {
			logger.Warn("KAFKA_BROKERS not set, events are dispatched in-process only")
		}
		return nil, func() {}
	}
	publisher, err := NewPublisher(brokers, strings.TrimSpace(os.Getenv("KAFKA_TOPIC")))
	if err != nil {
		if logger != nil {
			logger.Warn("failed to configure kafka publisher", slog.String("error", err.Error()))
		}
		return nil, func() {}
	}
	if logger != nil {
		logger.Info("kafka publisher configured", slog.Any("brokers", brokers))
	}
	return publisher, func() { _ = publisher.Close() }
}
