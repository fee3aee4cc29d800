package commands

import (
	"context"
	"log/slog"
	"time"

	"car-rental-core/internal/domain/reservation"
	"car-rental-core/internal/pkg/metrics"
	"car-rental-core/internal/usecase/shared"
)

type ReminderCommands interface {
	// SendDueReminders queues one reminder per confirmed reservation that starts the day after now.
	SendDueReminders(ctx context.Context, now time.Time) (int, error)
}

type reminderCommandsImpl struct {
	uow       shared.UnitOfWork
	notifier  *Notifier
	metrics   *metrics.Metrics
	batchSize int32
}

func NewReminderCommands(uow shared.UnitOfWork, notifier *Notifier, m *metrics.Metrics, batchSize int32) ReminderCommands {
	if batchSize <= 0 {
		batchSize = 200
	}
	return &reminderCommandsImpl{
		uow:       uow,
		notifier:  notifier,
		metrics:   m,
		batchSize: batchSize,
	}
}

func (c *reminderCommandsImpl) SendDueReminders(ctx context.Context, now time.Time) (int, error) {
	tomorrow := reservation.DateOf(now).AddDate(0, 0, 1)
	sent := 0

	for {
		var page []*reservation.Reservation
		err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			var err error
			page, err = tx.Reservations().ListReminderDue(ctx, tomorrow, c.batchSize)
			return err
		})
		if err != nil {
			return sent, err
		}

		progressed := 0
		for _, res := range page {
			if err := ctx.Err(); err != nil {
				return sent, err
			}
			ok, err := c.remind(ctx, res, now)
			if err != nil {
				slog.WarnContext(ctx, "failed to queue reminder", "reservation_id", res.ID().String(), "error", err.Error())
				continue
			}
			progressed++
			if ok {
				sent++
				c.metrics.RemindersQueued.Inc()
			}
		}

		// Marked rows drop out of the next page; stop when a page makes no progress.
		if int32(len(page)) < c.batchSize || progressed == 0 { // #nosec G115 -- page length is bounded by batchSize
			break
		}
	}

	slog.InfoContext(ctx, "reminders queued", "count", sent, "start_date", tomorrow.Format(reservation.DateLayout))
	return sent, nil
}

// remind marks the reservation and queues its event in one transaction, so
// a reminder is queued at most once.
func (c *reminderCommandsImpl) remind(ctx context.Context, res *reservation.Reservation, now time.Time) (bool, error) {
	var marked bool
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		marked, err = tx.Reservations().MarkReminderSent(ctx, res.ID(), now)
		if err != nil || !marked {
			return err
		}
		return c.notifier.Enqueue(ctx, tx, EventReservationReminder, res, nil)
	})
	return marked, err
}
