//go:build unit || e2e

package builder

import (
	"time"

	"car-rental-core/internal/domain/vehicle"
	sqlc "car-rental-core/internal/infra/sqlc/generated"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type VehicleBuilder struct {
	ID             uuid.UUID
	Make           string
	Model          string
	LicensePlate   string
	DailyRateCents int64
	Location       string
	Status         vehicle.Status
}

func NewVehicleBuilder() *VehicleBuilder {
	return &VehicleBuilder{
		ID:             uuid.New(),
		Make:           "Toyota",
		Model:          "Corolla",
		LicensePlate:   "ABC-" + uuid.NewString()[:4],
		DailyRateCents: 5000,
		Location:       "Airport",
		Status:         vehicle.StatusAvailable,
	}
}

func (v *VehicleBuilder) With(mutate func(*VehicleBuilder)) *VehicleBuilder {
	mutate(v)
	return v
}

func (v *VehicleBuilder) WithDailyRate(cents int64) *VehicleBuilder {
	v.DailyRateCents = cents
	return v
}

func (v *VehicleBuilder) InMaintenance() *VehicleBuilder {
	v.Status = vehicle.StatusMaintenance
	return v
}

func (v *VehicleBuilder) BuildDomain() *vehicle.Vehicle {
	now := time.Now().UTC()
	return vehicle.ReconstructVehicle(v.ID, v.Make, v.Model, v.LicensePlate, v.DailyRateCents, v.Location, v.Status, now, now)
}

func (v *VehicleBuilder) BuildInfra() sqlc.Vehicles {
	now := pgtype.Timestamptz{Time: time.Now().UTC(), Valid: true}
	return sqlc.Vehicles{
		ID:             v.ID,
		Make:           v.Make,
		Model:          v.Model,
		LicensePlate:   v.LicensePlate,
		DailyRateCents: v.DailyRateCents,
		Location:       v.Location,
		Status:         string(v.Status),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
