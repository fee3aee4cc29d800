package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"car-rental-core/internal/domain/reservation"
	"car-rental-core/internal/pkg/clock"
	"car-rental-core/internal/pkg/errs"
	"car-rental-core/internal/usecase/shared"
)

const (
	EventReservationCreated   = "reservation.created"
	EventReservationCancelled = "reservation.cancelled"
	EventReservationCompleted = "reservation.completed"
	EventReservationExpired   = "reservation.expired"
	EventReservationReminder  = "reservation.reminder"
	EventPaymentConfirmed     = "payment.confirmed"
	EventPaymentFailed        = "payment.failed"
)

const NotificationTopic = "reservation-events"

// ReservationEvent is the payload written to the notification outbox.
type ReservationEvent struct {
	Kind             string            `json:"kind"`
	ReservationID    string            `json:"reservation_id"`
	UserID           string            `json:"user_id"`
	VehicleID        string            `json:"vehicle_id"`
	Status           string            `json:"status"`
	StartDate        string            `json:"start_date"`
	EndDate          string            `json:"end_date"`
	TotalAmountCents int64             `json:"total_amount_cents"`
	Attributes       map[string]string `json:"attributes,omitempty"`
	OccurredAt       time.Time         `json:"occurred_at"`
}

type Notifier struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewNotifier(uow shared.UnitOfWork, clk clock.Clock) *Notifier {
	return &Notifier{
		uow:   uow,
		clock: clk,
	}
}

// Notify queues an event after the transition it describes has committed.
// It never fails the caller; a lost event is logged.
func (n *Notifier) Notify(ctx context.Context, kind string, res *reservation.Reservation, attrs map[string]string) {
	err := n.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return n.Enqueue(ctx, tx, kind, res, attrs)
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to queue notification",
			"kind", kind,
			"reservation_id", res.ID().String(),
			"error", err.Error())
	}
}

// Enqueue writes the event inside tx, for callers that need it atomic with their own write.
func (n *Notifier) Enqueue(ctx context.Context, tx shared.Tx, kind string, res *reservation.Reservation, attrs map[string]string) error {
	now := n.clock.Now()
	payload, err := json.Marshal(ReservationEvent{
		Kind:             kind,
		ReservationID:    res.ID().String(),
		UserID:           res.UserID().String(),
		VehicleID:        res.VehicleID().String(),
		Status:           res.Status().String(),
		StartDate:        res.Dates().Start().Format(reservation.DateLayout),
		EndDate:          res.Dates().End().Format(reservation.DateLayout),
		TotalAmountCents: res.Total().Cents(),
		Attributes:       attrs,
		OccurredAt:       now,
	})
	if err != nil {
		return errs.Wrap(err, "failed to encode notification")
	}
	return tx.Notifications().CreateJob(ctx, kind, NotificationTopic, payload, now)
}
