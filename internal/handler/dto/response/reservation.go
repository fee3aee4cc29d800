package response

import (
	"time"

	"car-rental-core/internal/domain/reservation"
	"car-rental-core/internal/usecase/commands"
	"car-rental-core/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ReservationResponse struct {
	ID               uuid.UUID `json:"id"`
	VehicleID        uuid.UUID `json:"vehicle_id"`
	VehicleMake      string    `json:"vehicle_make"`
	VehicleModel     string    `json:"vehicle_model"`
	UserID           uuid.UUID `json:"user_id"`
	StartDate        string    `json:"start_date" example:"2024-01-01"`
	EndDate          string    `json:"end_date" example:"2024-01-04"`
	PickupLocation   string    `json:"pickup_location"`
	TotalAmountCents int64     `json:"total_amount_cents"`
	Status           string    `json:"status" enums:"pending,confirmed,cancelled,completed"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type ReservationListResponse struct {
	Items      []*ReservationResponse `json:"items"`
	NextCursor string                 `json:"next_cursor,omitempty"`
}

// PaymentResponse reports where the reservation landed after a payment attempt.
type PaymentResponse struct {
	ReservationID    uuid.UUID `json:"reservation_id"`
	Status           string    `json:"status"`
	TotalAmountCents int64     `json:"total_amount_cents"`
}

type SweepResponse struct {
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}

var dateOnly = copier.Option{
	Converters: []copier.TypeConverter{
		{
			SrcType: time.Time{},
			DstType: copier.String,
			Fn: func(src any) (any, error) {
				return src.(time.Time).Format(reservation.DateLayout), nil
			},
		},
	},
}

func FromReservationView(view *queries.ReservationView) (*ReservationResponse, error) {
	var resp ReservationResponse
	if err := copier.CopyWithOption(&resp, view, dateOnly); err != nil {
		return nil, err
	}
	return &resp, nil
}

func FromReservationPage(page *queries.ReservationPage) (*ReservationListResponse, error) {
	items := make([]*ReservationResponse, 0, len(page.Items))
	for _, view := range page.Items {
		resp, err := FromReservationView(view)
		if err != nil {
			return nil, err
		}
		items = append(items, resp)
	}
	return &ReservationListResponse{Items: items, NextCursor: page.NextCursor}, nil
}

func FromPaidReservation(res *reservation.Reservation) *PaymentResponse {
	return &PaymentResponse{
		ReservationID:    res.ID(),
		Status:           res.Status().String(),
		TotalAmountCents: res.Total().Cents(),
	}
}

func FromSweepResult(r commands.SweepResult) *SweepResponse {
	return &SweepResponse{Completed: r.Completed, Cancelled: r.Cancelled}
}
