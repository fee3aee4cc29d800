package reservation

import (
	"car-rental-core/internal/domain/vehicle"
	"car-rental-core/internal/pkg/clock"
	"car-rental-core/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrVehicleOutOfService = errs.Mark(errs.New("vehicle is under maintenance"), errs.ErrResourceUnavailable)

type Factory struct {
	Clock          clock.Clock
	RateCalculator RateCalculator
}

func NewFactory(clock clock.Clock, rateCalculator RateCalculator) *Factory {
	return &Factory{
		Clock:          clock,
		RateCalculator: rateCalculator,
	}
}

// CreateReservation builds a pending reservation. Overlap is not checked here;
// that needs the vehicle's calendar and happens in the same transaction as the insert.
func (f *Factory) CreateReservation(
	v *vehicle.Vehicle,
	userID uuid.UUID,
	dates DateRange,
	pickupLocation PickupLocation,
) (*Reservation, error) {
	now := f.Clock.Now().UTC()
	if dates.Start().Before(DateOf(now)) {
		return nil, ErrStartInPast
	}
	if !v.IsBookable() {
		return nil, ErrVehicleOutOfService
	}

	rate, err := NewMoney(v.DailyRateCents())
	if err != nil {
		return nil, err
	}

	return &Reservation{
		id:             uuid.New(),
		vehicleID:      v.ID(),
		userID:         userID,
		dates:          dates,
		pickupLocation: pickupLocation,
		total:          f.RateCalculator.Total(rate, dates),
		status:         StatusPending,
		version:        1,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}
