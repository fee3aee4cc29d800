package worker

import (
	"context"
	"log/slog"
	"time"

	"car-rental-core/internal/pkg/clock"
	"car-rental-core/internal/usecase/commands"
)

// Sweeper runs the lifecycle sweep on a fixed interval.
type Sweeper struct {
	sweeper  commands.LifecycleSweeper
	clock    clock.Clock
	interval time.Duration
	runner   runner
}

func NewSweeper(sweeper commands.LifecycleSweeper, clk clock.Clock, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &Sweeper{
		sweeper:  sweeper,
		clock:    clk,
		interval: interval,
	}
}

func (s *Sweeper) Start() {
	s.runner.start(s.loop)
}

func (s *Sweeper) Stop(ctx context.Context) error {
	return s.runner.stop(ctx)
}

func (s *Sweeper) loop(ctx context.Context) {
	slog.Info("lifecycle sweeper started", "interval", s.interval.String())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Catch up on anything that went stale while the process was down.
	s.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("lifecycle sweeper stopped")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

func (s *Sweeper) RunOnce(ctx context.Context) {
	if _, err := s.sweeper.RunLifecycleSweep(ctx, s.clock.Now()); err != nil && ctx.Err() == nil {
		slog.Error("lifecycle sweep failed", "error", err.Error())
	}
}
