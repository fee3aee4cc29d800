package messaging

import (
	"context"
	"log/slog"

	"car-rental-core/internal/pkg/errs"
)

// Message is one outbox event ready to leave the process.
type Message struct {
	Key     string
	Kind    string
	Topic   string
	Payload []byte
}

type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

const (
	PublisherLog   = "log"
	PublisherKafka = "kafka"
	PublisherSQS   = "sqs"
)

var ErrUnknownPublisher = errs.New("unknown notification publisher")

// LogPublisher writes events to the structured log. It is the default sink
// when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

var _ Publisher = (*LogPublisher)(nil)

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, msg Message) error {
	p.logger.InfoContext(ctx, "notification",
		slog.String("kind", msg.Kind),
		slog.String("topic", msg.Topic),
		slog.String("key", msg.Key),
		slog.String("payload", string(msg.Payload)))
	return nil
}

func (p *LogPublisher) Close() error { return nil }
