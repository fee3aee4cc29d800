//go:build unit

package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"car-rental-core/internal/infra/messaging"
	"car-rental-core/internal/pkg/clock"
	"car-rental-core/internal/pkg/metrics"
	"car-rental-core/internal/usecase/shared"
	"car-rental-core/tests/common/memstore"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu   sync.Mutex
	sent []messaging.Message
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, msg messaging.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, msg)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func enqueue(t *testing.T, store *memstore.Store, kind string, payload string, runAt time.Time) {
	t.Helper()
	err := store.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		return tx.Notifications().CreateJob(ctx, kind, "reservation-events", []byte(payload), runAt)
	})
	require.NoError(t, err)
}

func TestNotificationDispatcher_DispatchDue(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	resID := uuid.NewString()

	t.Run("publishes due jobs keyed by reservation", func(t *testing.T) {
		store := memstore.New()
		pub := &recordingPublisher{}
		d := NewNotificationDispatcher(store, pub, clock.NewMockClock(now), metrics.NewNop(), DispatcherConfig{})

		enqueue(t, store, "reservation.created", `{"reservation_id":"`+resID+`"}`, now.Add(-time.Minute))
		enqueue(t, store, "reservation.reminder", `{"reservation_id":"later"}`, now.Add(time.Hour))

		sent, err := d.DispatchDue(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, sent)

		require.Len(t, pub.sent, 1)
		assert.Equal(t, resID, pub.sent[0].Key)
		assert.Equal(t, "reservation.created", pub.sent[0].Kind)
		assert.Equal(t, "reservation-events", pub.sent[0].Topic)

		jobs := store.Jobs()
		assert.Equal(t, shared.JobSent, jobs[0].Status)
		assert.Equal(t, shared.JobQueued, jobs[1].Status)

		sent, err = d.DispatchDue(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, sent)
	})

	t.Run("failed publish is retried later", func(t *testing.T) {
		store := memstore.New()
		pub := &recordingPublisher{err: errors.New("broker down")}
		d := NewNotificationDispatcher(store, pub, clock.NewMockClock(now), metrics.NewNop(), DispatcherConfig{
			PollInterval: time.Second,
			MaxAttempts:  3,
		})
		enqueue(t, store, "reservation.created", `{}`, now)

		sent, err := d.DispatchDue(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, sent)

		job := store.Jobs()[0]
		assert.Equal(t, shared.JobQueued, job.Status)
		assert.Equal(t, int32(1), job.Attempts)
		assert.Equal(t, now.Add(2*time.Second), job.RunAt)
		require.NotNil(t, job.LastError)
		assert.Equal(t, "broker down", *job.LastError)
	})
}

func TestNotificationDispatcher_RetryPlan(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	d := NewNotificationDispatcher(nil, nil, nil, nil, DispatcherConfig{PollInterval: time.Minute, MaxAttempts: 4})

	tests := []struct {
		attempts int32
		status   shared.JobStatus
		runAt    time.Time
	}{
		{attempts: 0, status: shared.JobQueued, runAt: now.Add(2 * time.Minute)},
		{attempts: 1, status: shared.JobQueued, runAt: now.Add(4 * time.Minute)},
		{attempts: 2, status: shared.JobQueued, runAt: now.Add(8 * time.Minute)},
		{attempts: 3, status: shared.JobFailed, runAt: now},
	}
	for _, tt := range tests {
		status, runAt := d.retryPlan(shared.NotificationJob{Attempts: tt.attempts}, now)
		assert.Equal(t, tt.status, status, "attempts %d", tt.attempts)
		assert.Equal(t, tt.runAt, runAt, "attempts %d", tt.attempts)
	}

	long := NewNotificationDispatcher(nil, nil, nil, nil, DispatcherConfig{PollInterval: time.Hour, MaxAttempts: 10})
	_, runAt := long.retryPlan(shared.NotificationJob{Attempts: 5}, now)
	assert.Equal(t, now.Add(maxRetryDelay), runAt)
}

func TestMessageKey_FallsBackToJobID(t *testing.T) {
	job := shared.NotificationJob{ID: uuid.New(), Payload: []byte("not json")}
	assert.Equal(t, job.ID.String(), messageKey(job))
}
