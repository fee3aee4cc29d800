package components

import (
	"context"
	"log/slog"

	"car-rental-core/internal/infra/messaging"
	"car-rental-core/internal/pkg/clock"
	"car-rental-core/internal/pkg/config"
	"car-rental-core/internal/pkg/metrics"
	"car-rental-core/internal/usecase/commands"
	"car-rental-core/internal/usecase/shared"
	"car-rental-core/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		NewSweeper,
		NewReminderScheduler,
		NewNotificationDispatcher,
	),
	fx.Invoke(startWorkers),
)

type backgroundWorker interface {
	Start()
	Stop(ctx context.Context) error
}

func NewSweeper(s commands.LifecycleSweeper, clk clock.Clock, cfg config.Config) *worker.Sweeper {
	return worker.NewSweeper(s, clk, cfg.Lifecycle.SweepInterval)
}

func NewReminderScheduler(r commands.ReminderCommands, clk clock.Clock, cfg config.Config) *worker.ReminderScheduler {
	return worker.NewReminderScheduler(r, clk, worker.ReminderSchedulerConfig{
		RunHour:   cfg.Lifecycle.ReminderHour,
		RunMinute: cfg.Lifecycle.ReminderMinute,
	})
}

func NewNotificationDispatcher(uow shared.UnitOfWork, pub messaging.Publisher, clk clock.Clock, m *metrics.Metrics, cfg config.Config) *worker.NotificationDispatcher {
	return worker.NewNotificationDispatcher(uow, pub, clk, m, worker.DispatcherConfig{
		PollInterval: cfg.Notify.PollInterval,
		BatchSize:    cfg.Notify.BatchSize,
		MaxAttempts:  cfg.Notify.MaxAttempts,
	})
}

func startWorkers(
	lc fx.Lifecycle,
	cfg config.Config,
	logger *slog.Logger,
	sweeper *worker.Sweeper,
	reminders *worker.ReminderScheduler,
	dispatcher *worker.NotificationDispatcher,
) {
	if !cfg.Lifecycle.WorkersEnabled {
		logger.Info("background workers disabled")
		return
	}

	for _, w := range []backgroundWorker{sweeper, reminders, dispatcher} {
		lc.Append(fx.Hook{
			OnStart: func(_ context.Context) error {
				w.Start()
				return nil
			},
			OnStop: w.Stop,
		})
	}
}
