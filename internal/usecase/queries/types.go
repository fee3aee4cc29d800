package queries

import (
	"time"

	"github.com/google/uuid"
)

// ReservationView is the read model returned to callers, joined with vehicle details.
type ReservationView struct {
	ID               uuid.UUID `json:"id"`
	VehicleID        uuid.UUID `json:"vehicle_id"`
	VehicleMake      string    `json:"vehicle_make"`
	VehicleModel     string    `json:"vehicle_model"`
	UserID           uuid.UUID `json:"user_id"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	PickupLocation   string    `json:"pickup_location"`
	TotalAmountCents int64     `json:"total_amount_cents"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type ReservationPage struct {
	Items      []*ReservationView
	NextCursor string
}
