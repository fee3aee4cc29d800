package worker

import (
	"context"
	"log/slog"
	"time"

	"car-rental-core/internal/pkg/clock"
	"car-rental-core/internal/usecase/commands"
)

type ReminderSchedulerConfig struct {
	RunHour   int
	RunMinute int
}

// ReminderScheduler queues pickup reminders once a day at a fixed UTC time.
type ReminderScheduler struct {
	reminders commands.ReminderCommands
	clock     clock.Clock
	runHour   int
	runMinute int
	runner    runner
}

func NewReminderScheduler(reminders commands.ReminderCommands, clk clock.Clock, cfg ReminderSchedulerConfig) *ReminderScheduler {
	return &ReminderScheduler{
		reminders: reminders,
		clock:     clk,
		runHour:   clampHour(cfg.RunHour),
		runMinute: clampMinute(cfg.RunMinute),
	}
}

func (s *ReminderScheduler) Start() {
	s.runner.start(s.loop)
}

func (s *ReminderScheduler) Stop(ctx context.Context) error {
	return s.runner.stop(ctx)
}

func (s *ReminderScheduler) loop(ctx context.Context) {
	for {
		now := s.clock.Now()
		next := s.nextRun(now)
		slog.Info("next reminder run scheduled", "at", next.Format(time.RFC3339))

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			if _, err := s.reminders.SendDueReminders(ctx, next); err != nil && ctx.Err() == nil {
				slog.Error("reminder run failed", "error", err.Error())
			}
		}
	}
}

func (s *ReminderScheduler) nextRun(after time.Time) time.Time {
	after = after.UTC()
	target := time.Date(after.Year(), after.Month(), after.Day(), s.runHour, s.runMinute, 0, 0, time.UTC)
	if !target.After(after) {
		target = target.AddDate(0, 0, 1)
	}
	return target
}

func clampHour(hour int) int {
	if hour < 0 {
		return 0
	}
	if hour > 23 {
		return 23
	}
	return hour
}

func clampMinute(minute int) int {
	if minute < 0 {
		return 0
	}
	if minute > 59 {
		return 59
	}
	return minute
}
