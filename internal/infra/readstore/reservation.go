package readstore

import (
	"context"
	"time"

	"car-rental-core/internal/infra"
	sqlc "car-rental-core/internal/infra/sqlc/generated"
	"car-rental-core/internal/pkg/pgconv"
	"car-rental-core/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationViewQueries interface {
	GetReservationViewByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.GetReservationViewByIDRow, error)
	ListReservationViewsAfter(ctx context.Context, db sqlc.DBTX, arg sqlc.ListReservationViewsAfterParams) ([]sqlc.ListReservationViewsAfterRow, error)
}

type ReservationReadStore struct {
	queries ReservationViewQueries
	db      sqlc.DBTX
}

var _ queries.ReservationReadStore = (*ReservationReadStore)(nil)

func NewReservationReadStore(queries ReservationViewQueries, db sqlc.DBTX) *ReservationReadStore {
	return &ReservationReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	row, err := r.queries.GetReservationViewByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
	}

	return &queries.ReservationView{
		ID:               row.ID,
		VehicleID:        row.VehicleID,
		VehicleMake:      row.VehicleMake,
		VehicleModel:     row.VehicleModel,
		UserID:           row.UserID,
		StartDate:        pgconv.DateFromPgtype(row.StartDate),
		EndDate:          pgconv.DateFromPgtype(row.EndDate),
		PickupLocation:   row.PickupLocation,
		TotalAmountCents: row.TotalAmountCents,
		Status:           row.Status,
		CreatedAt:        pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:        pgconv.TimeFromPgtype(row.UpdatedAt),
	}, nil
}

func (r *ReservationReadStore) ListAfter(ctx context.Context, userID *uuid.UUID, afterCreatedAt time.Time, afterID uuid.UUID, limit int32) ([]*queries.ReservationView, error) {
	params := sqlc.ListReservationViewsAfterParams{
		UserID:         pgconv.UUIDPtrToPgtype(userID),
		AfterCreatedAt: pgconv.TimeToPgtype(afterCreatedAt),
		AfterID:        afterID,
		RowLimit:       limit,
	}

	rows, err := r.queries.ListReservationViewsAfter(ctx, r.db, params)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations", err)
	}

	result := make([]*queries.ReservationView, len(rows))
	for i, row := range rows {
		result[i] = &queries.ReservationView{
			ID:               row.ID,
			VehicleID:        row.VehicleID,
			VehicleMake:      row.VehicleMake,
			VehicleModel:     row.VehicleModel,
			UserID:           row.UserID,
			StartDate:        pgconv.DateFromPgtype(row.StartDate),
			EndDate:          pgconv.DateFromPgtype(row.EndDate),
			PickupLocation:   row.PickupLocation,
			TotalAmountCents: row.TotalAmountCents,
			Status:           row.Status,
			CreatedAt:        pgconv.TimeFromPgtype(row.CreatedAt),
			UpdatedAt:        pgconv.TimeFromPgtype(row.UpdatedAt),
		}
	}
	return result, nil
}
