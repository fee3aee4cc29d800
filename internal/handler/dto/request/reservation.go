package request

import (
	"strings"

	"car-rental-core/internal/domain/reservation"
	"car-rental-core/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	VehicleID      uuid.UUID `json:"vehicle_id" binding:"required"`
	StartDate      string    `json:"start_date" binding:"required" example:"2024-01-01"`
	EndDate        string    `json:"end_date" binding:"required" example:"2024-01-04"`
	PickupLocation string    `json:"pickup_location" binding:"required"`
}

func (r CreateReservationRequest) ToInput() (commands.CreateReservationInput, error) {
	start, err := reservation.ParseDate(r.StartDate)
	if err != nil {
		return commands.CreateReservationInput{}, err
	}
	end, err := reservation.ParseDate(r.EndDate)
	if err != nil {
		return commands.CreateReservationInput{}, err
	}
	return commands.CreateReservationInput{
		VehicleID:      r.VehicleID,
		StartDate:      start,
		EndDate:        end,
		PickupLocation: strings.TrimSpace(r.PickupLocation),
	}, nil
}

// UpdateReservationRequest only carries fields a caller may change. Omitted fields are kept.
type UpdateReservationRequest struct {
	PickupLocation *string `json:"pickup_location,omitempty"`
}

func (r UpdateReservationRequest) ToUpdate() reservation.Update {
	return reservation.Update{PickupLocation: r.PickupLocation}
}
