package converter

import (
	"car-rental-core/internal/domain/reservation"
	"car-rental-core/internal/domain/vehicle"
	sqlc "car-rental-core/internal/infra/sqlc/generated"
	"car-rental-core/internal/pkg/errs"
	"car-rental-core/internal/pkg/pgconv"
)

func ReservationToInfra(res *reservation.Reservation) sqlc.CreateReservationParams {
	dates := res.Dates()
	return sqlc.CreateReservationParams{
		ID:               res.ID(),
		VehicleID:        res.VehicleID(),
		UserID:           res.UserID(),
		StartDate:        pgconv.DateToPgtype(dates.Start()),
		EndDate:          pgconv.DateToPgtype(dates.End()),
		PickupLocation:   res.PickupLocation().String(),
		TotalAmountCents: res.Total().Cents(),
		Status:           res.Status().String(),
		Version:          res.Version(),
		CreatedAt:        pgconv.TimeToPgtype(res.CreatedAt()),
		UpdatedAt:        pgconv.TimeToPgtype(res.UpdatedAt()),
	}
}

// ReservationFromInfra rejects rows whose status is outside the known set.
func ReservationFromInfra(row sqlc.Reservations) (*reservation.Reservation, error) {
	status, err := reservation.ParseStatus(row.Status)
	if err != nil {
		return nil, errs.Wrapf(err, "reservation %s", row.ID)
	}
	total, err := reservation.NewMoney(row.TotalAmountCents)
	if err != nil {
		return nil, errs.Wrapf(err, "reservation %s", row.ID)
	}

	return reservation.ReconstructReservation(
		row.ID,
		row.VehicleID,
		row.UserID,
		reservation.ReconstructDateRange(pgconv.DateFromPgtype(row.StartDate), pgconv.DateFromPgtype(row.EndDate)),
		reservation.ReconstructPickupLocation(row.PickupLocation),
		total,
		status,
		row.Version,
		pgconv.TimeFromPgtype(row.CreatedAt),
		pgconv.TimeFromPgtype(row.UpdatedAt),
	), nil
}

func ReservationsFromInfra(rows []sqlc.Reservations) ([]*reservation.Reservation, error) {
	result := make([]*reservation.Reservation, 0, len(rows))
	for _, row := range rows {
		res, err := ReservationFromInfra(row)
		if err != nil {
			return nil, err
		}
		result = append(result, res)
	}
	return result, nil
}

func VehicleFromInfra(row sqlc.Vehicles) (*vehicle.Vehicle, error) {
	status, err := vehicle.ParseStatus(row.Status)
	if err != nil {
		return nil, errs.Wrapf(err, "vehicle %s", row.ID)
	}
	return vehicle.ReconstructVehicle(
		row.ID,
		row.Make,
		row.Model,
		row.LicensePlate,
		row.DailyRateCents,
		row.Location,
		status,
		pgconv.TimeFromPgtype(row.CreatedAt),
		pgconv.TimeFromPgtype(row.UpdatedAt),
	), nil
}
