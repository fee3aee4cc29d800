package repository

import (
	"context"
	"time"

	"car-rental-core/internal/infra"
	sqlc "car-rental-core/internal/infra/sqlc/generated"
	"car-rental-core/internal/pkg/pgconv"
	"car-rental-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type IdempotencyWriteQueries interface {
	UpsertIdempotencyKey(ctx context.Context, db sqlc.DBTX, arg sqlc.UpsertIdempotencyKeyParams) (int64, error)
	CompleteIdempotencyClaim(ctx context.Context, db sqlc.DBTX, arg sqlc.CompleteIdempotencyClaimParams) (int64, error)
	DeleteIdempotencyClaim(ctx context.Context, db sqlc.DBTX, arg sqlc.DeleteIdempotencyClaimParams) (int64, error)
	DeleteExpiredIdempotencyKeys(ctx context.Context, db sqlc.DBTX, now pgtype.Timestamptz) (int64, error)
}

type IdempotencyRepository struct {
	queries IdempotencyWriteQueries
	db      sqlc.DBTX
}

func NewIdempotencyRepository(queries IdempotencyWriteQueries, db sqlc.DBTX) *IdempotencyRepository {
	return &IdempotencyRepository{
		queries: queries,
		db:      db,
	}
}

func (r *IdempotencyRepository) Save(ctx context.Context, rec shared.IdempotencyRecord, now time.Time) (bool, error) {
	n, err := r.queries.UpsertIdempotencyKey(ctx, r.db, sqlc.UpsertIdempotencyKeyParams{
		Scope:     rec.Scope,
		OwnerID:   rec.OwnerID,
		Key:       rec.Key,
		Outcome:   rec.Outcome,
		EntityID:  rec.EntityID,
		ExpiresAt: pgconv.TimeToPgtype(rec.ExpiresAt),
		CreatedAt: pgconv.TimeToPgtype(now),
	})
	if err != nil {
		return false, infra.WrapRepoErr("failed to save idempotency key", err)
	}
	return n > 0, nil
}

func (r *IdempotencyRepository) Complete(ctx context.Context, rec shared.IdempotencyRecord, claimOutcome string) (bool, error) {
	n, err := r.queries.CompleteIdempotencyClaim(ctx, r.db, sqlc.CompleteIdempotencyClaimParams{
		Outcome:      rec.Outcome,
		EntityID:     rec.EntityID,
		ExpiresAt:    pgconv.TimeToPgtype(rec.ExpiresAt),
		Scope:        rec.Scope,
		OwnerID:      rec.OwnerID,
		Key:          rec.Key,
		ClaimOutcome: claimOutcome,
	})
	if err != nil {
		return false, infra.WrapRepoErr("failed to complete idempotency claim", err)
	}
	return n > 0, nil
}

func (r *IdempotencyRepository) Release(ctx context.Context, scope string, owner uuid.UUID, key, claimOutcome string) error {
	_, err := r.queries.DeleteIdempotencyClaim(ctx, r.db, sqlc.DeleteIdempotencyClaimParams{
		Scope:        scope,
		OwnerID:      owner,
		Key:          key,
		ClaimOutcome: claimOutcome,
	})
	if err != nil {
		return infra.WrapRepoErr("failed to release idempotency claim", err)
	}
	return nil
}

func (r *IdempotencyRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	count, err := r.queries.DeleteExpiredIdempotencyKeys(ctx, r.db, pgconv.TimeToPgtype(now))
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete expired idempotency keys", err)
	}
	return count, nil
}
