package reservation

import (
	"time"

	"car-rental-core/internal/domain/user"
	"car-rental-core/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrAlreadyTerminal          = errs.Mark(errs.New("reservation is already cancelled or completed"), errs.ErrInvalidTransition)
	ErrNotPending               = errs.Mark(errs.New("reservation is not pending"), errs.ErrInvalidTransition)
	ErrNotConfirmed             = errs.Mark(errs.New("reservation is not confirmed"), errs.ErrInvalidTransition)
	ErrNotEnded                 = errs.Mark(errs.New("reservation has not ended yet"), errs.ErrInvalidTransition)
	ErrNotExpired               = errs.Mark(errs.New("pending reservation has not expired"), errs.ErrInvalidTransition)
	ErrCancellationWindowClosed = errs.Mark(errs.New("confirmed reservation can only be cancelled before its start date"), errs.ErrInvalidTransition)
	ErrNotOwner                 = errs.Mark(errs.New("reservation belongs to another user"), errs.ErrForbidden)
)

// ExpiryReason tells why the sweeper cancelled a pending reservation.
type ExpiryReason string

const (
	ExpiryStartLapsed    ExpiryReason = "start_lapsed"
	ExpiryPaymentTimeout ExpiryReason = "payment_timeout"
)

// Update carries the fields a caller may change after creation. Nil means keep.
type Update struct {
	PickupLocation *string
}

type Reservation struct {
	id             uuid.UUID
	vehicleID      uuid.UUID
	userID         uuid.UUID
	dates          DateRange
	pickupLocation PickupLocation
	total          Money
	status         Status
	version        int32
	createdAt      time.Time
	updatedAt      time.Time
}

func ReconstructReservation(
	id, vehicleID, userID uuid.UUID,
	dates DateRange,
	pickupLocation PickupLocation,
	total Money,
	status Status,
	version int32,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:             id,
		vehicleID:      vehicleID,
		userID:         userID,
		dates:          dates,
		pickupLocation: pickupLocation,
		total:          total,
		status:         status,
		version:        version,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// Cancel applies a user or admin cancellation. today is the caller's UTC date.
func (r *Reservation) Cancel(actor user.Actor, today time.Time) error {
	if !actor.CanAccess(r.userID) {
		return ErrNotOwner
	}
	if r.status.IsTerminal() {
		return ErrAlreadyTerminal
	}
	if r.status == StatusConfirmed && !actor.IsAdmin() && !r.dates.Start().After(DateOf(today)) {
		return ErrCancellationWindowClosed
	}
	r.status = StatusCancelled
	return nil
}

// Confirm moves a pending reservation to confirmed after a successful payment.
func (r *Reservation) Confirm() error {
	if r.status != StatusPending {
		return errs.Wrapf(ErrNotPending, "status %s", r.status)
	}
	r.status = StatusConfirmed
	return nil
}

// Complete closes a confirmed reservation whose end date is before today.
func (r *Reservation) Complete(today time.Time) error {
	if r.status != StatusConfirmed {
		return ErrNotConfirmed
	}
	if !r.dates.End().Before(DateOf(today)) {
		return ErrNotEnded
	}
	r.status = StatusCompleted
	return nil
}

// ExpiryReasonAt reports why a pending reservation should be cancelled at now,
// or false when it is still live.
func (r *Reservation) ExpiryReasonAt(now time.Time, paymentTimeout time.Duration) (ExpiryReason, bool) {
	if r.status != StatusPending {
		return "", false
	}
	if r.dates.Start().Before(DateOf(now)) {
		return ExpiryStartLapsed, true
	}
	if r.createdAt.Before(now.Add(-paymentTimeout)) {
		return ExpiryPaymentTimeout, true
	}
	return "", false
}

// Expire cancels a stale pending reservation on behalf of the sweeper.
func (r *Reservation) Expire(now time.Time, paymentTimeout time.Duration) (ExpiryReason, error) {
	if r.status != StatusPending {
		return "", ErrNotPending
	}
	reason, ok := r.ExpiryReasonAt(now, paymentTimeout)
	if !ok {
		return "", ErrNotExpired
	}
	r.status = StatusCancelled
	return reason, nil
}

// ApplyUpdate changes mutable details of a live reservation.
func (r *Reservation) ApplyUpdate(actor user.Actor, upd Update) error {
	if !actor.CanAccess(r.userID) {
		return ErrNotOwner
	}
	if r.status.IsTerminal() {
		return ErrAlreadyTerminal
	}
	if upd.PickupLocation != nil {
		loc, err := NewPickupLocation(*upd.PickupLocation)
		if err != nil {
			return err
		}
		r.pickupLocation = loc
	}
	return nil
}

func (r *Reservation) ID() uuid.UUID                  { return r.id }
func (r *Reservation) VehicleID() uuid.UUID           { return r.vehicleID }
func (r *Reservation) UserID() uuid.UUID              { return r.userID }
func (r *Reservation) Dates() DateRange               { return r.dates }
func (r *Reservation) PickupLocation() PickupLocation { return r.pickupLocation }
func (r *Reservation) Total() Money                   { return r.total }
func (r *Reservation) Status() Status                 { return r.status }
func (r *Reservation) Version() int32                 { return r.version }
func (r *Reservation) CreatedAt() time.Time           { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time           { return r.updatedAt }
