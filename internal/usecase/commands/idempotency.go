package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"car-rental-core/internal/pkg/clock"
	"car-rental-core/internal/pkg/errs"
	"car-rental-core/internal/pkg/metrics"
	"car-rental-core/internal/usecase/shared"

	"github.com/google/uuid"
)

// Scopes namespace idempotency keys per logical write operation.
const (
	ScopeReservationCreate = "reservation.create"
	ScopePaymentConfirm    = "payment.confirm"
	ScopePaymentProcess    = "payment.process"
)

const maxIdempotencyKeyLength = 255

var ErrIdempotencyKeyTooLong = errs.Mark(errs.New("idempotency key is too long (max 255 characters)"), errs.ErrValidation)

// OutcomeProcessing marks a claim taken before a side effect outside the
// database, such as a gateway charge.
const OutcomeProcessing = "processing"

// IdempotencyCache is an optional fast path in front of the durable records.
type IdempotencyCache interface {
	Get(ctx context.Context, scope string, owner uuid.UUID, key string) (*shared.IdempotencyRecord, error)
	Put(ctx context.Context, rec shared.IdempotencyRecord, now time.Time) error
}

// IdempotencyToken is handed out by Admit and redeemed by Commit. The zero
// value is an untracked request.
type IdempotencyToken struct {
	scope   string
	owner   uuid.UUID
	key     string
	claimed bool
}

func (t IdempotencyToken) Tracked() bool {
	return t.key != ""
}

type IdempotencyGuard struct {
	uow     shared.UnitOfWork
	cache   IdempotencyCache
	clock   clock.Clock
	ttl     time.Duration
	metrics *metrics.Metrics
}

func NewIdempotencyGuard(uow shared.UnitOfWork, cache IdempotencyCache, clk clock.Clock, ttl time.Duration, m *metrics.Metrics) *IdempotencyGuard {
	return &IdempotencyGuard{
		uow:     uow,
		cache:   cache,
		clock:   clk,
		ttl:     ttl,
		metrics: m,
	}
}

// Admit rejects a key that already has a live record for this owner in
// scope. Keys from different owners never collide; system callers pass uuid.Nil.
func (g *IdempotencyGuard) Admit(ctx context.Context, scope string, owner uuid.UUID, key string) (IdempotencyToken, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return IdempotencyToken{}, nil
	}
	if len(key) > maxIdempotencyKeyLength {
		return IdempotencyToken{}, ErrIdempotencyKeyTooLong
	}

	now := g.clock.Now()

	if g.cache != nil {
		rec, err := g.cache.Get(ctx, scope, owner, key)
		if err != nil {
			slog.WarnContext(ctx, "idempotency cache read failed", "scope", scope, "error", err.Error())
		} else if rec != nil && rec.IsLive(now) {
			return IdempotencyToken{}, g.duplicate(rec)
		}
	}

	rec, err := g.uow.CommandReads().LiveIdempotencyRecord(ctx, scope, owner, key, now)
	if err != nil {
		return IdempotencyToken{}, err
	}
	if rec != nil {
		g.Remember(ctx, rec)
		return IdempotencyToken{}, g.duplicate(rec)
	}

	return IdempotencyToken{scope: scope, owner: owner, key: key}, nil
}

// Claim commits a processing record for the key before a side effect that
// cannot be rolled back. A concurrent request with the same key then sees a
// duplicate instead of repeating the side effect.
func (g *IdempotencyGuard) Claim(ctx context.Context, token IdempotencyToken, entityID uuid.UUID) (IdempotencyToken, error) {
	if !token.Tracked() {
		return token, nil
	}

	now := g.clock.Now()
	rec := g.record(token, OutcomeProcessing, entityID, now)
	err := g.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		saved, err := tx.Idempotency().Save(ctx, rec, now)
		if err != nil {
			return err
		}
		if !saved {
			return g.priorDuplicate(ctx, tx, token, now)
		}
		return nil
	})
	if err != nil {
		return IdempotencyToken{}, err
	}

	token.claimed = true
	return token, nil
}

// Release drops a claim whose side effect did not happen, so the client can
// retry with the same key. Failures leave the claim to expire.
func (g *IdempotencyGuard) Release(ctx context.Context, token IdempotencyToken) {
	if !token.claimed {
		return
	}
	err := g.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Idempotency().Release(ctx, token.scope, token.owner, token.key, OutcomeProcessing)
	})
	if err != nil {
		slog.WarnContext(ctx, "idempotency claim release failed", "scope", token.scope, "error", err.Error())
	}
}

// Commit stores the outcome in the caller's transaction so the record
// becomes visible only if the guarded write commits. A concurrent request
// that committed the same key first turns this into a duplicate.
func (g *IdempotencyGuard) Commit(ctx context.Context, tx shared.Tx, token IdempotencyToken, outcome string, entityID uuid.UUID) (*shared.IdempotencyRecord, error) {
	if !token.Tracked() {
		return nil, nil
	}

	now := g.clock.Now()
	rec := g.record(token, outcome, entityID, now)

	var (
		saved bool
		err   error
	)
	if token.claimed {
		saved, err = tx.Idempotency().Complete(ctx, rec, OutcomeProcessing)
	} else {
		saved, err = tx.Idempotency().Save(ctx, rec, now)
	}
	if err != nil {
		return nil, err
	}
	if !saved {
		return nil, g.priorDuplicate(ctx, tx, token, now)
	}
	return &rec, nil
}

// Remember warms the cache after commit. Failures only cost a database read later.
func (g *IdempotencyGuard) Remember(ctx context.Context, rec *shared.IdempotencyRecord) {
	if rec == nil || g.cache == nil || rec.Outcome == OutcomeProcessing {
		return
	}
	if err := g.cache.Put(ctx, *rec, g.clock.Now()); err != nil {
		slog.WarnContext(ctx, "idempotency cache write failed", "scope", rec.Scope, "error", err.Error())
	}
}

func (g *IdempotencyGuard) record(token IdempotencyToken, outcome string, entityID uuid.UUID, now time.Time) shared.IdempotencyRecord {
	return shared.IdempotencyRecord{
		Scope:     token.scope,
		OwnerID:   token.owner,
		Key:       token.key,
		Outcome:   outcome,
		EntityID:  entityID,
		ExpiresAt: now.Add(g.ttl),
		CreatedAt: now,
	}
}

func (g *IdempotencyGuard) priorDuplicate(ctx context.Context, tx shared.Tx, token IdempotencyToken, now time.Time) error {
	prior, err := tx.Reads().LiveIdempotencyRecord(ctx, token.scope, token.owner, token.key, now)
	if err != nil {
		return err
	}
	if prior == nil {
		prior = &shared.IdempotencyRecord{Scope: token.scope, OwnerID: token.owner, Key: token.key}
	}
	return g.duplicate(prior)
}

func (g *IdempotencyGuard) duplicate(rec *shared.IdempotencyRecord) error {
	g.metrics.IdempotentReplays.WithLabelValues(rec.Scope).Inc()
	return &errs.DuplicateRequestError{
		Scope:    rec.Scope,
		Key:      rec.Key,
		Outcome:  rec.Outcome,
		EntityID: rec.EntityID,
	}
}
