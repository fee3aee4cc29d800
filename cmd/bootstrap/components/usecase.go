package components

import (
	"car-rental-core/internal/domain/reservation"
	"car-rental-core/internal/infra/cache"
	"car-rental-core/internal/infra/gateway"
	"car-rental-core/internal/pkg/clock"
	"car-rental-core/internal/pkg/config"
	"car-rental-core/internal/pkg/metrics"
	"car-rental-core/internal/usecase/commands"
	"car-rental-core/internal/usecase/queries"
	"car-rental-core/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		reservation.NewDayRateCalculator,
		fx.As(new(reservation.RateCalculator)),
	),
	reservation.NewFactory,
	fx.Annotate(
		cache.NewRedisIdempotencyCache,
		fx.As(new(commands.IdempotencyCache)),
	),
	fx.Annotate(
		gateway.NewSimulatedGateway,
		fx.As(new(commands.Gateway)),
	),
	NewIdempotencyGuard,
	commands.NewNotifier,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewReservationCommands,
		commands.NewPaymentCommands,
		NewLifecycleSweeper,
		NewReminderCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewReservationQueries,
	),
)

func NewIdempotencyGuard(uow shared.UnitOfWork, c commands.IdempotencyCache, clk clock.Clock, cfg config.Config, m *metrics.Metrics) *commands.IdempotencyGuard {
	return commands.NewIdempotencyGuard(uow, c, clk, cfg.Lifecycle.IdempotencyTTL, m)
}

func NewLifecycleSweeper(uow shared.UnitOfWork, n *commands.Notifier, m *metrics.Metrics, cfg config.Config) commands.LifecycleSweeper {
	return commands.NewLifecycleSweeper(uow, n, m, commands.SweepConfig{
		PaymentTimeout: cfg.Lifecycle.PaymentTimeout,
		BatchSize:      cfg.Lifecycle.SweepBatchSize,
	})
}

func NewReminderCommands(uow shared.UnitOfWork, n *commands.Notifier, m *metrics.Metrics, cfg config.Config) commands.ReminderCommands {
	return commands.NewReminderCommands(uow, n, m, cfg.Lifecycle.SweepBatchSize)
}
