package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"car-rental-core/internal/infra/messaging"
	"car-rental-core/internal/pkg/config"
	"car-rental-core/internal/pkg/errs"

	"go.uber.org/fx"
)

const connectTimeout = 10 * time.Second

var MessagingModule = fx.Module("messaging",
	fx.Provide(
		NewPublisher,
	),
)

func NewPublisher(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (messaging.Publisher, error) {
	var (
		pub messaging.Publisher
		err error
	)
	switch cfg.Notify.Publisher {
	case messaging.PublisherLog, "":
		pub = messaging.NewLogPublisher(logger)
	case messaging.PublisherKafka:
		pub = messaging.NewKafkaPublisher(messaging.KafkaConfig{
			Brokers: cfg.Notify.KafkaBrokers,
			Topic:   cfg.Notify.KafkaTopic,
		})
	case messaging.PublisherSQS:
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		pub, err = messaging.NewSQSPublisherFromEnv(ctx, cfg.Notify.SQSQueueURL)
		if err != nil {
			return nil, err
		}
	default:
		return nil, errs.Wrapf(messaging.ErrUnknownPublisher, "NOTIFY_PUBLISHER=%q", cfg.Notify.Publisher)
	}

	logger.Info("notification publisher ready", "publisher", cfg.Notify.Publisher)
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return pub.Close()
		},
	})
	return pub, nil
}
