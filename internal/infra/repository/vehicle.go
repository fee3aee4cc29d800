package repository

import (
	"context"

	"car-rental-core/internal/domain/vehicle"
	"car-rental-core/internal/infra"
	"car-rental-core/internal/infra/repository/converter"
	sqlc "car-rental-core/internal/infra/sqlc/generated"
	"car-rental-core/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type VehicleWriteQueries interface {
	GetVehicleByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Vehicles, error)
	GetVehicleForUpdate(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Vehicles, error)
}

type VehicleRepository struct {
	queries VehicleWriteQueries
	db      sqlc.DBTX
}

func NewVehicleRepository(queries VehicleWriteQueries, db sqlc.DBTX) *VehicleRepository {
	return &VehicleRepository{
		queries: queries,
		db:      db,
	}
}

func (r *VehicleRepository) FindByID(ctx context.Context, id uuid.UUID) (*vehicle.Vehicle, error) {
	row, err := r.queries.GetVehicleByID(ctx, r.db, id)
	if err != nil {
		return nil, r.wrapLookupErr(err)
	}
	return converter.VehicleFromInfra(row)
}

func (r *VehicleRepository) LockByID(ctx context.Context, id uuid.UUID) (*vehicle.Vehicle, error) {
	row, err := r.queries.GetVehicleForUpdate(ctx, r.db, id)
	if err != nil {
		return nil, r.wrapLookupErr(err)
	}
	return converter.VehicleFromInfra(row)
}

func (r *VehicleRepository) wrapLookupErr(err error) error {
	if pgconv.IsNoRows(err) {
		return infra.WrapRepoErr("vehicle not found", err, infra.KindNotFound)
	}
	return infra.WrapRepoErr("failed to find vehicle", err)
}
