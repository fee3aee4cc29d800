//go:build unit || e2e

package builder

import (
	"time"

	"car-rental-core/internal/domain/reservation"
	reqdto "car-rental-core/internal/handler/dto/request"
	sqlc "car-rental-core/internal/infra/sqlc/generated"
	"car-rental-core/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// ReservationBuilder defaults to a pending three-night booking starting a week
// after Now.
type ReservationBuilder struct {
	ID             uuid.UUID
	VehicleID      uuid.UUID
	UserID         uuid.UUID
	StartDate      time.Time
	EndDate        time.Time
	PickupLocation string
	TotalCents     int64
	Status         reservation.Status
	Version        int32
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func NewReservationBuilder() *ReservationBuilder {
	now := time.Now().UTC()
	start := reservation.DateOf(now).AddDate(0, 0, 7)
	return &ReservationBuilder{
		ID:             uuid.New(),
		VehicleID:      uuid.New(),
		UserID:         uuid.New(),
		StartDate:      start,
		EndDate:        start.AddDate(0, 0, 3),
		PickupLocation: "Airport",
		TotalCents:     15000,
		Status:         reservation.StatusPending,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (r *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(r)
	return r
}

func (r *ReservationBuilder) WithVehicleID(id uuid.UUID) *ReservationBuilder {
	r.VehicleID = id
	return r
}

func (r *ReservationBuilder) WithUserID(id uuid.UUID) *ReservationBuilder {
	r.UserID = id
	return r
}

// WithDates takes calendar days as "2006-01-02".
func (r *ReservationBuilder) WithDates(start, end string) *ReservationBuilder {
	r.StartDate = mustDate(start)
	r.EndDate = mustDate(end)
	return r
}

func (r *ReservationBuilder) WithDateRange(start, end time.Time) *ReservationBuilder {
	r.StartDate = reservation.DateOf(start)
	r.EndDate = reservation.DateOf(end)
	return r
}

func (r *ReservationBuilder) WithStatus(status reservation.Status) *ReservationBuilder {
	r.Status = status
	return r
}

func (r *ReservationBuilder) WithCreatedAt(t time.Time) *ReservationBuilder {
	r.CreatedAt = t
	r.UpdatedAt = t
	return r
}

func (r *ReservationBuilder) WithTotal(cents int64) *ReservationBuilder {
	r.TotalCents = cents
	return r
}

func (r *ReservationBuilder) Confirmed() *ReservationBuilder {
	return r.WithStatus(reservation.StatusConfirmed)
}

func (r *ReservationBuilder) BuildDomain() *reservation.Reservation {
	return reservation.ReconstructReservation(
		r.ID, r.VehicleID, r.UserID,
		reservation.ReconstructDateRange(r.StartDate, r.EndDate),
		reservation.ReconstructPickupLocation(r.PickupLocation),
		reservation.MustMoney(r.TotalCents),
		r.Status,
		r.Version,
		r.CreatedAt, r.UpdatedAt,
	)
}

func (r *ReservationBuilder) BuildInfra() sqlc.Reservations {
	return sqlc.Reservations{
		ID:               r.ID,
		VehicleID:        r.VehicleID,
		UserID:           r.UserID,
		StartDate:        pgtype.Date{Time: r.StartDate, Valid: true},
		EndDate:          pgtype.Date{Time: r.EndDate, Valid: true},
		PickupLocation:   r.PickupLocation,
		TotalAmountCents: r.TotalCents,
		Status:           r.Status.String(),
		Version:          r.Version,
		CreatedAt:        pgtype.Timestamptz{Time: r.CreatedAt, Valid: true},
		UpdatedAt:        pgtype.Timestamptz{Time: r.UpdatedAt, Valid: true},
	}
}

func (r *ReservationBuilder) BuildView() *queries.ReservationView {
	return &queries.ReservationView{
		ID:               r.ID,
		VehicleID:        r.VehicleID,
		VehicleMake:      "Toyota",
		VehicleModel:     "Corolla",
		UserID:           r.UserID,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		PickupLocation:   r.PickupLocation,
		TotalAmountCents: r.TotalCents,
		Status:           r.Status.String(),
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func (r *ReservationBuilder) BuildCreateRequestDTO() reqdto.CreateReservationRequest {
	return reqdto.CreateReservationRequest{
		VehicleID:      r.VehicleID,
		StartDate:      r.StartDate.Format(reservation.DateLayout),
		EndDate:        r.EndDate.Format(reservation.DateLayout),
		PickupLocation: r.PickupLocation,
	}
}

func mustDate(s string) time.Time {
	t, err := reservation.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}
