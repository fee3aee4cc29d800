package uow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"car-rental-core/internal/infra/readstore"
	"car-rental-core/internal/infra/repository"
	sqlc "car-rental-core/internal/infra/sqlc/generated"
	"car-rental-core/internal/pkg/errs"
	"car-rental-core/internal/pkg/metrics"
	"car-rental-core/internal/usecase/shared"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

// RetryPolicy bounds how often a transaction that lost a serialization race
// or a deadlock is replayed.
type RetryPolicy struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

var DefaultRetryPolicy = RetryPolicy{
	MaxRetries:      3,
	InitialInterval: 100 * time.Millisecond,
	MaxInterval:     time.Second,
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOffContext {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval
	b.RandomizationFactor = 0.2
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, p.MaxRetries), ctx)
}

type PostgresUoW struct {
	pool    *pgxpool.Pool
	q       *sqlc.Queries
	policy  RetryPolicy
	metrics *metrics.Metrics
}

func NewPostgresUoW(pool *pgxpool.Pool, q *sqlc.Queries, m *metrics.Metrics) shared.UnitOfWork {
	return &PostgresUoW{
		pool:    pool,
		q:       q,
		policy:  DefaultRetryPolicy,
		metrics: m,
	}
}

// Within runs fn at READ COMMITTED. Overlap checks rely on the vehicle row
// lock taken inside fn rather than on a stricter isolation level.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.run(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

func (u *PostgresUoW) CommandReads() shared.CommandReads {
	return readstore.NewCommandReadStore(u.q, u.pool)
}

func (u *PostgresUoW) run(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	attempts := 0
	op := func() error {
		attempts++
		err := u.attempt(ctx, opts, fn)
		if err == nil {
			return nil
		}
		if _, ok := retryableCode(err); !ok {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		code, _ := retryableCode(err)
		u.metrics.TxRetries.WithLabelValues(code).Inc()
		slog.WarnContext(ctx, "retrying transaction",
			"attempt", attempts,
			"sqlstate", code,
			"wait_ms", wait.Milliseconds(),
			"error", err.Error())
	}

	err := backoff.RetryNotify(op, u.policy.backOff(ctx), notify)
	if err == nil {
		return nil
	}
	if _, ok := retryableCode(err); ok {
		slog.ErrorContext(ctx, "transaction failed after max retries", "attempts", attempts, "error", err.Error())
		return errs.Mark(err, errMaxRetriesExceeded)
	}
	return err
}

// attempt owns exactly one pgx transaction so a retry never leaks the
// previous connection.
func (u *PostgresUoW) attempt(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) (err error) {
	pgxTx, err := u.pool.BeginTx(ctx, opts)
	if err != nil {
		return errs.Mark(err, errTransactionBegin)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := pgxTx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			slog.WarnContext(ctx, "rollback failed", "error", rbErr.Error())
		}
	}()

	if err = fn(ctx, newPgTx(u.q, pgxTx)); err != nil {
		return err
	}
	if err = pgxTx.Commit(ctx); err != nil {
		return errs.Mark(err, errTransactionCommit)
	}
	return nil
}

func retryableCode(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", false
	}
	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return pgErr.Code, true
	default:
		return pgErr.Code, false
	}
}

// pgTx hands out repositories bound to one transaction, built on first use.
type pgTx struct {
	q    *sqlc.Queries
	dbtx sqlc.DBTX

	vehicles      shared.VehicleRepository
	reservations  shared.ReservationRepository
	payments      shared.PaymentRepository
	idempotency   shared.IdempotencyRepository
	notifications shared.NotificationRepository
	reads         shared.CommandReads
}

func newPgTx(q *sqlc.Queries, dbtx sqlc.DBTX) *pgTx {
	return &pgTx{q: q, dbtx: dbtx}
}

func (t *pgTx) Vehicles() shared.VehicleRepository {
	if t.vehicles == nil {
		t.vehicles = repository.NewVehicleRepository(t.q, t.dbtx)
	}
	return t.vehicles
}

func (t *pgTx) Reservations() shared.ReservationRepository {
	if t.reservations == nil {
		t.reservations = repository.NewReservationRepository(t.q, t.dbtx)
	}
	return t.reservations
}

func (t *pgTx) Payments() shared.PaymentRepository {
	if t.payments == nil {
		t.payments = repository.NewPaymentRepository(t.q, t.dbtx)
	}
	return t.payments
}

func (t *pgTx) Idempotency() shared.IdempotencyRepository {
	if t.idempotency == nil {
		t.idempotency = repository.NewIdempotencyRepository(t.q, t.dbtx)
	}
	return t.idempotency
}

func (t *pgTx) Notifications() shared.NotificationRepository {
	if t.notifications == nil {
		t.notifications = repository.NewNotificationRepository(t.q, t.dbtx)
	}
	return t.notifications
}

func (t *pgTx) Reads() shared.CommandReads {
	if t.reads == nil {
		t.reads = readstore.NewCommandReadStore(t.q, t.dbtx)
	}
	return t.reads
}
