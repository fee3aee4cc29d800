package commands

import (
	"context"
	"log/slog"
	"time"

	"car-rental-core/internal/domain/reservation"
	"car-rental-core/internal/pkg/errs"
	"car-rental-core/internal/pkg/metrics"
	"car-rental-core/internal/usecase/shared"

	"github.com/google/uuid"
)

type SweepResult struct {
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}

type LifecycleSweeper interface {
	// RunLifecycleSweep applies every time-based transition due at now.
	// Running it twice with the same now changes nothing the second time.
	RunLifecycleSweep(ctx context.Context, now time.Time) (SweepResult, error)
}

type SweepConfig struct {
	PaymentTimeout time.Duration
	BatchSize      int32
}

type lifecycleSweeperImpl struct {
	uow      shared.UnitOfWork
	notifier *Notifier
	metrics  *metrics.Metrics
	cfg      SweepConfig
}

func NewLifecycleSweeper(uow shared.UnitOfWork, notifier *Notifier, m *metrics.Metrics, cfg SweepConfig) LifecycleSweeper {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 200
	}
	return &lifecycleSweeperImpl{
		uow:      uow,
		notifier: notifier,
		metrics:  m,
		cfg:      cfg,
	}
}

// sweepPass is one category of time-based transition.
type sweepPass struct {
	name  string
	event string
	list  func(ctx context.Context, repo shared.ReservationRepository, afterID uuid.UUID) ([]*reservation.Reservation, error)
	apply func(res *reservation.Reservation) (map[string]string, error)
}

func (s *lifecycleSweeperImpl) RunLifecycleSweep(ctx context.Context, now time.Time) (SweepResult, error) {
	now = now.UTC()
	today := reservation.DateOf(now)
	batch := s.cfg.BatchSize

	complete := sweepPass{
		name:  "complete",
		event: EventReservationCompleted,
		list: func(ctx context.Context, repo shared.ReservationRepository, afterID uuid.UUID) ([]*reservation.Reservation, error) {
			return repo.ListCompletable(ctx, today, afterID, batch)
		},
		apply: func(res *reservation.Reservation) (map[string]string, error) {
			return nil, res.Complete(now)
		},
	}
	expire := func(res *reservation.Reservation) (map[string]string, error) {
		reason, err := res.Expire(now, s.cfg.PaymentTimeout)
		if err != nil {
			return nil, err
		}
		return map[string]string{"reason": string(reason)}, nil
	}
	lapsed := sweepPass{
		name:  "start_lapsed",
		event: EventReservationExpired,
		list: func(ctx context.Context, repo shared.ReservationRepository, afterID uuid.UUID) ([]*reservation.Reservation, error) {
			return repo.ListLapsedPending(ctx, today, afterID, batch)
		},
		apply: expire,
	}
	timedOut := sweepPass{
		name:  "payment_timeout",
		event: EventReservationExpired,
		list: func(ctx context.Context, repo shared.ReservationRepository, afterID uuid.UUID) ([]*reservation.Reservation, error) {
			return repo.ListTimedOutPending(ctx, now.Add(-s.cfg.PaymentTimeout), afterID, batch)
		},
		apply: expire,
	}

	var (
		result  SweepResult
		runErr  error
		started = time.Now()
	)

	n, err := s.runPass(ctx, now, complete)
	result.Completed += n
	runErr = errs.Combine(runErr, err)

	for _, pass := range []sweepPass{lapsed, timedOut} {
		n, err := s.runPass(ctx, now, pass)
		result.Cancelled += n
		runErr = errs.Combine(runErr, err)
	}

	s.purgeIdempotencyKeys(ctx, now)

	slog.InfoContext(ctx, "lifecycle sweep finished",
		"completed", result.Completed,
		"cancelled", result.Cancelled,
		"duration_ms", time.Since(started).Milliseconds())

	return result, runErr
}

func (s *lifecycleSweeperImpl) runPass(ctx context.Context, now time.Time, pass sweepPass) (int, error) {
	var (
		transitioned int
		afterID      uuid.UUID
	)
	for {
		var page []*reservation.Reservation
		err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			var err error
			page, err = pass.list(ctx, tx.Reservations(), afterID)
			return err
		})
		if err != nil {
			return transitioned, errs.Wrapf(err, "sweep %s: list candidates", pass.name)
		}

		for _, candidate := range page {
			if err := ctx.Err(); err != nil {
				return transitioned, err
			}
			afterID = candidate.ID()

			res, attrs, err := s.transition(ctx, now, candidate.ID(), pass)
			if err != nil {
				s.logRowError(ctx, pass.name, candidate.ID(), err)
				continue
			}
			transitioned++
			s.metrics.SweepTransitions.WithLabelValues(res.Status().String()).Inc()
			s.notifier.Notify(ctx, pass.event, res, attrs)
		}

		if int32(len(page)) < s.cfg.BatchSize { // #nosec G115 -- page length is bounded by BatchSize
			return transitioned, nil
		}
	}
}

// transition re-reads the row in its own transaction; the version check in
// UpdateStatus makes a racing user cancel and the sweep converge on one write.
func (s *lifecycleSweeperImpl) transition(ctx context.Context, now time.Time, id uuid.UUID, pass sweepPass) (*reservation.Reservation, map[string]string, error) {
	var (
		res   *reservation.Reservation
		attrs map[string]string
	)
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		r, err := tx.Reservations().FindByID(ctx, id)
		if err != nil {
			return err
		}
		a, err := pass.apply(r)
		if err != nil {
			return err
		}
		if err := tx.Reservations().UpdateStatus(ctx, r, now); err != nil {
			return err
		}
		res, attrs = r, a
		return nil
	})
	return res, attrs, err
}

func (s *lifecycleSweeperImpl) logRowError(ctx context.Context, pass string, id uuid.UUID, err error) {
	// Another writer got there first; nothing to do.
	if errs.Is(err, errs.ErrInvalidTransition) {
		slog.DebugContext(ctx, "sweep skipped reservation", "pass", pass, "reservation_id", id.String(), "reason", err.Error())
		return
	}
	s.metrics.SweepRowErrors.Inc()
	slog.WarnContext(ctx, "sweep failed for reservation", "pass", pass, "reservation_id", id.String(), "error", err.Error())
}

func (s *lifecycleSweeperImpl) purgeIdempotencyKeys(ctx context.Context, now time.Time) {
	var purged int64
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		purged, err = tx.Idempotency().DeleteExpired(ctx, now)
		return err
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to purge expired idempotency keys", "error", err.Error())
		return
	}
	if purged > 0 {
		s.metrics.IdempotencyPurged.Add(float64(purged))
		slog.InfoContext(ctx, "purged expired idempotency keys", "count", purged)
	}
}
