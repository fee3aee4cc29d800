package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"car-rental-core/internal/infra/messaging"
	"car-rental-core/internal/pkg/clock"
	"car-rental-core/internal/pkg/metrics"
	"car-rental-core/internal/usecase/shared"
)

const (
	publishTimeout = 5 * time.Second
	maxRetryDelay  = 30 * time.Minute
)

type DispatcherConfig struct {
	PollInterval time.Duration
	BatchSize    int32
	MaxAttempts  int32
}

// NotificationDispatcher drains the notification outbox into a Publisher.
type NotificationDispatcher struct {
	uow       shared.UnitOfWork
	publisher messaging.Publisher
	clock     clock.Clock
	metrics   *metrics.Metrics
	cfg       DispatcherConfig
	runner    runner
}

func NewNotificationDispatcher(
	uow shared.UnitOfWork,
	publisher messaging.Publisher,
	clk clock.Clock,
	m *metrics.Metrics,
	cfg DispatcherConfig,
) *NotificationDispatcher {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	return &NotificationDispatcher{
		uow:       uow,
		publisher: publisher,
		clock:     clk,
		metrics:   m,
		cfg:       cfg,
	}
}

func (d *NotificationDispatcher) Start() {
	d.runner.start(d.loop)
}

func (d *NotificationDispatcher) Stop(ctx context.Context) error {
	return d.runner.stop(ctx)
}

func (d *NotificationDispatcher) loop(ctx context.Context) {
	ticker := time.NewTicker(d.cfg.PollInterval)
	defer ticker.Stop()

	slog.Info("notification dispatcher started", "poll_interval", d.cfg.PollInterval.String())

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := d.DispatchDue(ctx); err != nil && ctx.Err() == nil {
				slog.Error("failed to dispatch notifications", "error", err.Error())
			}
		}
	}
}

// DispatchDue publishes one batch of due jobs and returns how many were sent.
// Jobs stay locked until the batch transaction ends, so concurrent
// dispatchers never publish the same job twice at once.
func (d *NotificationDispatcher) DispatchDue(ctx context.Context) (int, error) {
	sent := 0
	err := d.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		sent = 0
		now := d.clock.Now()
		jobs, err := tx.Notifications().ClaimDue(ctx, now, d.cfg.BatchSize)
		if err != nil {
			return err
		}

		for _, job := range jobs {
			pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
			pubErr := d.publisher.Publish(pubCtx, messaging.Message{
				Key:     messageKey(job),
				Kind:    job.Kind,
				Topic:   job.Topic,
				Payload: job.Payload,
			})
			cancel()

			if pubErr == nil {
				d.metrics.EventsPublished.Inc()
				sent++
				if err := tx.Notifications().UpdateJobStatus(ctx, job.ID, shared.JobSent, nil, job.RunAt); err != nil {
					return err
				}
				continue
			}

			d.metrics.PublishErrors.Inc()
			msg := pubErr.Error()
			status, runAt := d.retryPlan(job, now)
			slog.Warn("failed to publish notification",
				"job_id", job.ID.String(),
				"kind", job.Kind,
				"attempt", job.Attempts+1,
				"status", string(status),
				"error", msg)
			if err := tx.Notifications().UpdateJobStatus(ctx, job.ID, status, &msg, runAt); err != nil {
				return err
			}
		}
		return nil
	})
	return sent, err
}

// retryPlan re-queues with exponential backoff until MaxAttempts is reached.
func (d *NotificationDispatcher) retryPlan(job shared.NotificationJob, now time.Time) (shared.JobStatus, time.Time) {
	attempt := job.Attempts + 1
	if attempt >= d.cfg.MaxAttempts {
		return shared.JobFailed, now
	}
	delay := d.cfg.PollInterval << uint(attempt) // #nosec G115 -- attempt is small and positive
	if delay <= 0 || delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	return shared.JobQueued, now.Add(delay)
}

func messageKey(job shared.NotificationJob) string {
	var head struct {
		ReservationID string `json:"reservation_id"`
	}
	if err := json.Unmarshal(job.Payload, &head); err == nil && head.ReservationID != "" {
		return head.ReservationID
	}
	return job.ID.String()
}
