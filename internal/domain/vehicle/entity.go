package vehicle

import (
	"strings"
	"time"

	"car-rental-core/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus     = errs.Mark(errs.New("invalid vehicle status"), errs.ErrValidation)
	ErrNegativeDailyRate = errs.Mark(errs.New("daily rate cannot be negative"), errs.ErrValidation)
	ErrEmptyPlate        = errs.Mark(errs.New("license plate cannot be empty"), errs.ErrValidation)
)

type Status string

const (
	StatusAvailable   Status = "available"
	StatusRented      Status = "rented"
	StatusMaintenance Status = "maintenance"
)

func (s Status) String() string {
	return string(s)
}

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusAvailable, StatusRented, StatusMaintenance:
		return st, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Vehicle is the bookable resource. Rates are stored in minor units.
type Vehicle struct {
	id             uuid.UUID
	make           string
	model          string
	licensePlate   string
	dailyRateCents int64
	location       string
	status         Status
	createdAt      time.Time
	updatedAt      time.Time
}

func NewVehicle(id uuid.UUID, manufacturer, model, licensePlate string, dailyRateCents int64, location string, status Status) (*Vehicle, error) {
	plate := strings.TrimSpace(licensePlate)
	if plate == "" {
		return nil, ErrEmptyPlate
	}
	if dailyRateCents < 0 {
		return nil, ErrNegativeDailyRate
	}
	if _, err := ParseStatus(string(status)); err != nil {
		return nil, err
	}
	return &Vehicle{
		id:             id,
		make:           strings.TrimSpace(manufacturer),
		model:          strings.TrimSpace(model),
		licensePlate:   plate,
		dailyRateCents: dailyRateCents,
		location:       strings.TrimSpace(location),
		status:         status,
	}, nil
}

func ReconstructVehicle(id uuid.UUID, manufacturer, model, licensePlate string, dailyRateCents int64, location string, status Status, createdAt, updatedAt time.Time) *Vehicle {
	return &Vehicle{
		id:             id,
		make:           manufacturer,
		model:          model,
		licensePlate:   licensePlate,
		dailyRateCents: dailyRateCents,
		location:       location,
		status:         status,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// IsBookable is false only while the vehicle is out of service. A rented
// vehicle can still take reservations for dates that do not overlap.
func (v *Vehicle) IsBookable() bool {
	return v.status != StatusMaintenance
}

func (v *Vehicle) ID() uuid.UUID         { return v.id }
func (v *Vehicle) Make() string          { return v.make }
func (v *Vehicle) Model() string         { return v.model }
func (v *Vehicle) LicensePlate() string  { return v.licensePlate }
func (v *Vehicle) DailyRateCents() int64 { return v.dailyRateCents }
func (v *Vehicle) Location() string      { return v.location }
func (v *Vehicle) Status() Status        { return v.status }
func (v *Vehicle) CreatedAt() time.Time  { return v.createdAt }
func (v *Vehicle) UpdatedAt() time.Time  { return v.updatedAt }
