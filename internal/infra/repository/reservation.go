package repository

import (
	"context"
	"time"

	"car-rental-core/internal/domain/reservation"
	"car-rental-core/internal/infra"
	"car-rental-core/internal/infra/repository/converter"
	sqlc "car-rental-core/internal/infra/sqlc/generated"
	"car-rental-core/internal/pkg/pgconv"
	"car-rental-core/internal/usecase/shared"

	"github.com/google/uuid"
)

type ReservationWriteQueries interface {
	CreateReservation(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateReservationParams) error
	CountOverlappingReservations(ctx context.Context, db sqlc.DBTX, arg sqlc.CountOverlappingReservationsParams) (int64, error)
	GetReservationByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Reservations, error)
	UpdateReservationStatus(ctx context.Context, db sqlc.DBTX, arg sqlc.UpdateReservationStatusParams) (int64, error)
	UpdateReservationPickupLocation(ctx context.Context, db sqlc.DBTX, arg sqlc.UpdateReservationPickupLocationParams) (int64, error)
	ListCompletableReservations(ctx context.Context, db sqlc.DBTX, arg sqlc.ListCompletableReservationsParams) ([]sqlc.Reservations, error)
	ListLapsedPendingReservations(ctx context.Context, db sqlc.DBTX, arg sqlc.ListLapsedPendingReservationsParams) ([]sqlc.Reservations, error)
	ListTimedOutPendingReservations(ctx context.Context, db sqlc.DBTX, arg sqlc.ListTimedOutPendingReservationsParams) ([]sqlc.Reservations, error)
	ListReminderDueReservations(ctx context.Context, db sqlc.DBTX, arg sqlc.ListReminderDueReservationsParams) ([]sqlc.Reservations, error)
	MarkReminderSent(ctx context.Context, db sqlc.DBTX, arg sqlc.MarkReminderSentParams) (int64, error)
}

type ReservationRepository struct {
	queries ReservationWriteQueries
	db      sqlc.DBTX
}

func NewReservationRepository(queries ReservationWriteQueries, db sqlc.DBTX) *ReservationRepository {
	return &ReservationRepository{
		queries: queries,
		db:      db,
	}
}

// Create surfaces the no-overlap exclusion constraint as KindConflict.
func (r *ReservationRepository) Create(ctx context.Context, res *reservation.Reservation) error {
	if err := r.queries.CreateReservation(ctx, r.db, converter.ReservationToInfra(res)); err != nil {
		return infra.WrapRepoErr("failed to create reservation", err)
	}
	return nil
}

func (r *ReservationRepository) CountOverlapping(ctx context.Context, vehicleID uuid.UUID, dates reservation.DateRange) (int64, error) {
	count, err := r.queries.CountOverlappingReservations(ctx, r.db, sqlc.CountOverlappingReservationsParams{
		VehicleID: vehicleID,
		EndDate:   pgconv.DateToPgtype(dates.End()),
		StartDate: pgconv.DateToPgtype(dates.Start()),
	})
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count overlapping reservations", err)
	}
	return count, nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	row, err := r.queries.GetReservationByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
	}
	return converter.ReservationFromInfra(row)
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, res *reservation.Reservation, now time.Time) error {
	n, err := r.queries.UpdateReservationStatus(ctx, r.db, sqlc.UpdateReservationStatusParams{
		Status:    res.Status().String(),
		UpdatedAt: pgconv.TimeToPgtype(now),
		ID:        res.ID(),
		Version:   res.Version(),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to update reservation status", err)
	}
	if n == 0 {
		return shared.ErrStaleVersion
	}
	return nil
}

func (r *ReservationRepository) UpdatePickupLocation(ctx context.Context, res *reservation.Reservation, now time.Time) error {
	n, err := r.queries.UpdateReservationPickupLocation(ctx, r.db, sqlc.UpdateReservationPickupLocationParams{
		PickupLocation: res.PickupLocation().String(),
		UpdatedAt:      pgconv.TimeToPgtype(now),
		ID:             res.ID(),
		Version:        res.Version(),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to update pickup location", err)
	}
	if n == 0 {
		return shared.ErrStaleVersion
	}
	return nil
}

func (r *ReservationRepository) ListCompletable(ctx context.Context, today time.Time, afterID uuid.UUID, limit int32) ([]*reservation.Reservation, error) {
	rows, err := r.queries.ListCompletableReservations(ctx, r.db, sqlc.ListCompletableReservationsParams{
		Today:    pgconv.DateToPgtype(today),
		AfterID:  afterID,
		RowLimit: limit,
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list completable reservations", err)
	}
	return converter.ReservationsFromInfra(rows)
}

func (r *ReservationRepository) ListLapsedPending(ctx context.Context, today time.Time, afterID uuid.UUID, limit int32) ([]*reservation.Reservation, error) {
	rows, err := r.queries.ListLapsedPendingReservations(ctx, r.db, sqlc.ListLapsedPendingReservationsParams{
		Today:    pgconv.DateToPgtype(today),
		AfterID:  afterID,
		RowLimit: limit,
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list lapsed pending reservations", err)
	}
	return converter.ReservationsFromInfra(rows)
}

func (r *ReservationRepository) ListTimedOutPending(ctx context.Context, createdBefore time.Time, afterID uuid.UUID, limit int32) ([]*reservation.Reservation, error) {
	rows, err := r.queries.ListTimedOutPendingReservations(ctx, r.db, sqlc.ListTimedOutPendingReservationsParams{
		CreatedBefore: pgconv.TimeToPgtype(createdBefore),
		AfterID:       afterID,
		RowLimit:      limit,
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list timed out reservations", err)
	}
	return converter.ReservationsFromInfra(rows)
}

func (r *ReservationRepository) ListReminderDue(ctx context.Context, startDate time.Time, limit int32) ([]*reservation.Reservation, error) {
	rows, err := r.queries.ListReminderDueReservations(ctx, r.db, sqlc.ListReminderDueReservationsParams{
		StartDate: pgconv.DateToPgtype(startDate),
		RowLimit:  limit,
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations due a reminder", err)
	}
	return converter.ReservationsFromInfra(rows)
}

func (r *ReservationRepository) MarkReminderSent(ctx context.Context, id uuid.UUID, sentAt time.Time) (bool, error) {
	n, err := r.queries.MarkReminderSent(ctx, r.db, sqlc.MarkReminderSentParams{
		SentAt: pgconv.TimeToPgtype(sentAt),
		ID:     id,
	})
	if err != nil {
		return false, infra.WrapRepoErr("failed to mark reminder sent", err)
	}
	return n > 0, nil
}
