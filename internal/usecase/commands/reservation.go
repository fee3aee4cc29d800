package commands

import (
	"context"
	"log/slog"
	"time"

	"car-rental-core/internal/domain/reservation"
	"car-rental-core/internal/domain/user"
	"car-rental-core/internal/infra"
	"car-rental-core/internal/pkg/clock"
	"car-rental-core/internal/pkg/errs"
	"car-rental-core/internal/pkg/metrics"
	"car-rental-core/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrVehicleNotFound    = errs.Mark(errs.New("vehicle not found"), errs.ErrNotFound)
	ErrVehicleUnavailable = errs.Mark(errs.New("vehicle is already booked for these dates"), errs.ErrResourceUnavailable)
)

type CreateReservationInput struct {
	VehicleID      uuid.UUID
	StartDate      time.Time
	EndDate        time.Time
	PickupLocation string
}

type ReservationCommands interface {
	CreateReservation(ctx context.Context, actor user.Actor, in CreateReservationInput, idempotencyKey string) (*reservation.Reservation, error)
	CancelReservation(ctx context.Context, actor user.Actor, id uuid.UUID) (*reservation.Reservation, error)
	UpdateReservation(ctx context.Context, actor user.Actor, id uuid.UUID, upd reservation.Update) (*reservation.Reservation, error)
}

type reservationCommandsImpl struct {
	uow      shared.UnitOfWork
	factory  *reservation.Factory
	guard    *IdempotencyGuard
	notifier *Notifier
	clock    clock.Clock
	metrics  *metrics.Metrics
}

func NewReservationCommands(
	uow shared.UnitOfWork,
	factory *reservation.Factory,
	guard *IdempotencyGuard,
	notifier *Notifier,
	clk clock.Clock,
	m *metrics.Metrics,
) ReservationCommands {
	return &reservationCommandsImpl{
		uow:      uow,
		factory:  factory,
		guard:    guard,
		notifier: notifier,
		clock:    clk,
		metrics:  m,
	}
}

func (c *reservationCommandsImpl) CreateReservation(
	ctx context.Context,
	actor user.Actor,
	in CreateReservationInput,
	idempotencyKey string,
) (*reservation.Reservation, error) {
	dates, err := reservation.NewDateRange(in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}
	pickup, err := reservation.NewPickupLocation(in.PickupLocation)
	if err != nil {
		return nil, err
	}

	token, err := c.guard.Admit(ctx, ScopeReservationCreate, actor.ID, idempotencyKey)
	if err != nil {
		if errs.Is(err, errs.ErrDuplicateRequest) {
			c.metrics.ReservationsRejected.WithLabelValues("duplicate").Inc()
		}
		return nil, err
	}

	var (
		created *reservation.Reservation
		record  *shared.IdempotencyRecord
	)
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// The row lock serializes creates per vehicle, so the overlap count
		// below cannot miss a concurrent insert.
		v, err := tx.Vehicles().LockByID(ctx, in.VehicleID)
		if err != nil {
			if errs.Is(err, errs.ErrNotFound) {
				return ErrVehicleNotFound
			}
			return err
		}

		res, err := c.factory.CreateReservation(v, actor.ID, dates, pickup)
		if err != nil {
			return err
		}

		n, err := tx.Reservations().CountOverlapping(ctx, v.ID(), dates)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrVehicleUnavailable
		}

		if err := tx.Reservations().Create(ctx, res); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return ErrVehicleUnavailable
			}
			return err
		}

		record, err = c.guard.Commit(ctx, tx, token, res.Status().String(), res.ID())
		if err != nil {
			return err
		}
		created = res
		return nil
	})
	if err != nil {
		switch {
		case errs.Is(err, errs.ErrResourceUnavailable):
			c.metrics.ReservationsRejected.WithLabelValues("unavailable").Inc()
		case errs.Is(err, errs.ErrDuplicateRequest):
			c.metrics.ReservationsRejected.WithLabelValues("duplicate").Inc()
		}
		return nil, err
	}

	c.guard.Remember(ctx, record)
	c.metrics.ReservationsCreated.Inc()
	slog.InfoContext(ctx, "reservation created",
		"reservation_id", created.ID().String(),
		"vehicle_id", created.VehicleID().String(),
		"dates", created.Dates().String())
	c.notifier.Notify(ctx, EventReservationCreated, created, nil)

	return created, nil
}

func (c *reservationCommandsImpl) CancelReservation(ctx context.Context, actor user.Actor, id uuid.UUID) (*reservation.Reservation, error) {
	var cancelled *reservation.Reservation
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := tx.Reservations().FindByID(ctx, id)
		if err != nil {
			return err
		}

		now := c.clock.Now()
		if err := res.Cancel(actor, now); err != nil {
			return err
		}
		if err := tx.Reservations().UpdateStatus(ctx, res, now); err != nil {
			return err
		}
		cancelled = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	attrs := map[string]string{"cancelled_by": actor.Role.String()}
	c.notifier.Notify(ctx, EventReservationCancelled, cancelled, attrs)
	return cancelled, nil
}

func (c *reservationCommandsImpl) UpdateReservation(ctx context.Context, actor user.Actor, id uuid.UUID, upd reservation.Update) (*reservation.Reservation, error) {
	var updated *reservation.Reservation
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := tx.Reservations().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := res.ApplyUpdate(actor, upd); err != nil {
			return err
		}
		if upd.PickupLocation != nil {
			if err := tx.Reservations().UpdatePickupLocation(ctx, res, c.clock.Now()); err != nil {
				return err
			}
		}
		updated = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
