package readstore

import (
	"context"
	"time"

	"car-rental-core/internal/infra"
	sqlc "car-rental-core/internal/infra/sqlc/generated"
	"car-rental-core/internal/pkg/pgconv"
	"car-rental-core/internal/usecase/shared"

	"github.com/google/uuid"
)

type CommandReadQueries interface {
	GetVehicleByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Vehicles, error)
	GetReservationByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Reservations, error)
	GetLiveIdempotencyKey(ctx context.Context, db sqlc.DBTX, arg sqlc.GetLiveIdempotencyKeyParams) (sqlc.IdempotencyKeys, error)
}

// CommandReadStore serves the snapshots commands validate against before opening a transaction.
type CommandReadStore struct {
	queries CommandReadQueries
	db      sqlc.DBTX
}

var _ shared.CommandReads = (*CommandReadStore)(nil)

func NewCommandReadStore(queries CommandReadQueries, db sqlc.DBTX) *CommandReadStore {
	return &CommandReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *CommandReadStore) VehicleByID(ctx context.Context, id uuid.UUID) (*shared.VehicleSnapshot, error) {
	row, err := r.queries.GetVehicleByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("vehicle not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find vehicle", err)
	}

	return &shared.VehicleSnapshot{
		ID:             row.ID,
		DailyRateCents: row.DailyRateCents,
		Status:         row.Status,
	}, nil
}

func (r *CommandReadStore) ReservationByID(ctx context.Context, id uuid.UUID) (*shared.ReservationSnapshot, error) {
	row, err := r.queries.GetReservationByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation", err)
	}

	return &shared.ReservationSnapshot{
		ID:               row.ID,
		VehicleID:        row.VehicleID,
		UserID:           row.UserID,
		Status:           row.Status,
		StartDate:        pgconv.DateFromPgtype(row.StartDate),
		EndDate:          pgconv.DateFromPgtype(row.EndDate),
		TotalAmountCents: row.TotalAmountCents,
		Version:          row.Version,
	}, nil
}

func (r *CommandReadStore) LiveIdempotencyRecord(ctx context.Context, scope string, owner uuid.UUID, key string, now time.Time) (*shared.IdempotencyRecord, error) {
	row, err := r.queries.GetLiveIdempotencyKey(ctx, r.db, sqlc.GetLiveIdempotencyKeyParams{
		Scope:   scope,
		OwnerID: owner,
		Key:     key,
		Now:     pgconv.TimeToPgtype(now),
	})
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to get idempotency key", err)
	}

	return &shared.IdempotencyRecord{
		Scope:     row.Scope,
		OwnerID:   row.OwnerID,
		Key:       row.Key,
		Outcome:   row.Outcome,
		EntityID:  row.EntityID,
		ExpiresAt: pgconv.TimeFromPgtype(row.ExpiresAt),
		CreatedAt: pgconv.TimeFromPgtype(row.CreatedAt),
	}, nil
}
