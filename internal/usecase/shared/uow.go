package shared

import (
	"context"
	"time"

	"car-rental-core/internal/domain/payment"
	"car-rental-core/internal/domain/reservation"
	"car-rental-core/internal/domain/vehicle"
	"car-rental-core/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrStaleVersion means another writer changed the row after it was read.
var ErrStaleVersion = errs.Mark(errs.New("reservation was modified concurrently"), errs.ErrInvalidTransition)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Vehicles() VehicleRepository
	Reservations() ReservationRepository
	Payments() PaymentRepository
	Idempotency() IdempotencyRepository
	Notifications() NotificationRepository
	Reads() CommandReads
}

type CommandReads interface {
	VehicleByID(ctx context.Context, id uuid.UUID) (*VehicleSnapshot, error)
	ReservationByID(ctx context.Context, id uuid.UUID) (*ReservationSnapshot, error)
	// LiveIdempotencyRecord returns nil when no unexpired record exists.
	LiveIdempotencyRecord(ctx context.Context, scope string, owner uuid.UUID, key string, now time.Time) (*IdempotencyRecord, error)
}

type VehicleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*vehicle.Vehicle, error)
	// LockByID holds a row lock on the vehicle until the transaction ends.
	LockByID(ctx context.Context, id uuid.UUID) (*vehicle.Vehicle, error)
}

type ReservationRepository interface {
	Create(ctx context.Context, res *reservation.Reservation) error
	CountOverlapping(ctx context.Context, vehicleID uuid.UUID, dates reservation.DateRange) (int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	// UpdateStatus persists res.Status() if the stored version still equals res.Version().
	UpdateStatus(ctx context.Context, res *reservation.Reservation, now time.Time) error
	UpdatePickupLocation(ctx context.Context, res *reservation.Reservation, now time.Time) error
	ListCompletable(ctx context.Context, today time.Time, afterID uuid.UUID, limit int32) ([]*reservation.Reservation, error)
	ListLapsedPending(ctx context.Context, today time.Time, afterID uuid.UUID, limit int32) ([]*reservation.Reservation, error)
	ListTimedOutPending(ctx context.Context, createdBefore time.Time, afterID uuid.UUID, limit int32) ([]*reservation.Reservation, error)
	ListReminderDue(ctx context.Context, startDate time.Time, limit int32) ([]*reservation.Reservation, error)
	MarkReminderSent(ctx context.Context, id uuid.UUID, sentAt time.Time) (bool, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *payment.Payment) error
}

type IdempotencyRepository interface {
	// Save stores rec unless a live record holds the key; false means it was held.
	Save(ctx context.Context, rec IdempotencyRecord, now time.Time) (bool, error)
	// Complete replaces the claim held under rec's key with rec's outcome;
	// false means no claim was held.
	Complete(ctx context.Context, rec IdempotencyRecord, claimOutcome string) (bool, error)
	// Release drops a claim that never reached an outcome.
	Release(ctx context.Context, scope string, owner uuid.UUID, key, claimOutcome string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error
	// ClaimDue locks due jobs; other dispatchers skip them until the transaction ends.
	ClaimDue(ctx context.Context, now time.Time, limit int32) ([]NotificationJob, error)
	UpdateJobStatus(ctx context.Context, id uuid.UUID, status JobStatus, lastError *string, runAt time.Time) error
}
