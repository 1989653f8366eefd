package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/Apurer/catering-api/internal/shared/events"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Consumer reads events from a topic within a consumer group and hands the
// ones it subscribes to over to a handler.
type Consumer struct {
	reader  messageReader
	types   map[events.Type]bool
	handler events.Handler
	logger  *slog.Logger
}

func NewConsumer(brokers []string, topic, groupID string, handler events.Handler, logger *slog.Logger, types ...events.Type) (*Consumer, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	if topic == "" {
		topic = DefaultTopic
	}
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return newConsumer(reader, handler, logger, types...), nil
}

func newConsumer(reader messageReader, handler events.Handler, logger *slog.Logger, types ...events.Type) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	wanted := make(map[events.Type]bool, len(types))
	for _, t := range types {
		wanted[t] = true
	}
	return &Consumer{reader: reader, types: wanted, handler: handler, logger: logger}
}

// Run consumes until ctx is cancelled. Every fetched message is committed,
// including ones that fail to decode or whose handler errors; such failures
// are logged.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		c.process(ctx, msg)
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.ErrorContext(ctx, "failed to commit kafka offset", slog.Int64("offset", msg.Offset), slog.String("error", err.Error()))
		}
	}
}

func (c *Consumer) process(ctx context.Context, msg kafkago.Message) {
	var event events.Event
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.logger.WarnContext(ctx, "skipping undecodable event", slog.Int64("offset", msg.Offset), slog.String("error", err.Error()))
		return
	}
	if len(c.types) > 0 && !c.types[event.Type] {
		return
	}
	if err := c.handler(ctx, event); err != nil {
		c.logger.ErrorContext(ctx, "event handler failed",
			slog.String("event.type", string(event.Type)),
			slog.String("event.key", event.Key()),
			slog.String("error", err.Error()),
		)
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
