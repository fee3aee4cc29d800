//go:build unit

package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"car-rental-core/internal/pkg/clock"
	"car-rental-core/internal/usecase/commands"
	commandsmock "car-rental-core/tests/mock/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestReminderScheduler_NextRun(t *testing.T) {
	s := NewReminderScheduler(nil, nil, ReminderSchedulerConfig{RunHour: 8, RunMinute: 30})

	tests := []struct {
		name  string
		after time.Time
		want  time.Time
	}{
		{
			name:  "later today",
			after: time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC),
			want:  time.Date(2024, 1, 1, 8, 30, 0, 0, time.UTC),
		},
		{
			name:  "exactly at run time moves to tomorrow",
			after: time.Date(2024, 1, 1, 8, 30, 0, 0, time.UTC),
			want:  time.Date(2024, 1, 2, 8, 30, 0, 0, time.UTC),
		},
		{
			name:  "year end",
			after: time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC),
			want:  time.Date(2025, 1, 1, 8, 30, 0, 0, time.UTC),
		},
		{
			name:  "non-UTC input before run time",
			after: time.Date(2024, 1, 1, 16, 0, 0, 0, time.FixedZone("UTC+9", 9*60*60)),
			want:  time.Date(2024, 1, 1, 8, 30, 0, 0, time.UTC),
		},
		{
			name:  "non-UTC input past run time",
			after: time.Date(2024, 1, 1, 18, 0, 0, 0, time.FixedZone("UTC+9", 9*60*60)),
			want:  time.Date(2024, 1, 2, 8, 30, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.nextRun(tt.after))
		})
	}
}

func TestReminderScheduler_ClampsConfig(t *testing.T) {
	s := NewReminderScheduler(nil, nil, ReminderSchedulerConfig{RunHour: 42, RunMinute: -3})
	assert.Equal(t, 23, s.runHour)
	assert.Equal(t, 0, s.runMinute)
}

type countingReminders struct{ calls atomic.Int32 }

func (c *countingReminders) SendDueReminders(context.Context, time.Time) (int, error) {
	c.calls.Add(1)
	return 0, nil
}

func TestReminderScheduler_StopBeforeFirstRun(t *testing.T) {
	rem := &countingReminders{}
	s := NewReminderScheduler(rem, clock.NewMockClock(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)), ReminderSchedulerConfig{RunHour: 8})

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	assert.Equal(t, int32(0), rem.calls.Load())
}

func TestSweeper_RunsOnStartAndStops(t *testing.T) {
	ctrl := gomock.NewController(t)
	sweeper := commandsmock.NewMockLifecycleSweeper(ctrl)
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	ran := make(chan struct{})
	sweeper.EXPECT().RunLifecycleSweep(gomock.Any(), now).
		DoAndReturn(func(context.Context, time.Time) (commands.SweepResult, error) {
			close(ran)
			return commands.SweepResult{Cancelled: 1}, nil
		}).
		Times(1)

	s := NewSweeper(sweeper, clock.NewMockClock(now), time.Hour)
	s.Start()
	s.Start()

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("sweep did not run on start")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	require.NoError(t, s.Stop(ctx))
}
