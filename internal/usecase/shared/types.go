package shared

import (
	"time"

	"github.com/google/uuid"
)

// Write-side snapshots keep commands independent of read-side view types.
type VehicleSnapshot struct {
	ID             uuid.UUID
	DailyRateCents int64
	Status         string
}

type ReservationSnapshot struct {
	ID               uuid.UUID
	VehicleID        uuid.UUID
	UserID           uuid.UUID
	Status           string
	StartDate        time.Time
	EndDate          time.Time
	TotalAmountCents int64
	Version          int32
}

// IdempotencyRecord is keyed by (Scope, OwnerID, Key). OwnerID is the
// requesting user, or uuid.Nil for system callers.
type IdempotencyRecord struct {
	Scope     string
	OwnerID   uuid.UUID
	Key       string
	Outcome   string
	EntityID  uuid.UUID
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (r IdempotencyRecord) IsLive(now time.Time) bool {
	return r.ExpiresAt.After(now)
}

type JobStatus string

const (
	JobQueued JobStatus = "queued"
	JobSent   JobStatus = "sent"
	JobFailed JobStatus = "failed"
)

type NotificationJob struct {
	ID       uuid.UUID
	Kind     string
	Topic    string
	Payload  []byte
	RunAt    time.Time
	Attempts int32
	Status   JobStatus
}
