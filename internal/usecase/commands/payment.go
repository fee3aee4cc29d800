package commands

import (
	"context"
	"log/slog"

	"car-rental-core/internal/domain/payment"
	"car-rental-core/internal/domain/reservation"
	"car-rental-core/internal/domain/user"
	"car-rental-core/internal/infra"
	"car-rental-core/internal/pkg/clock"
	"car-rental-core/internal/pkg/errs"
	"car-rental-core/internal/pkg/metrics"
	"car-rental-core/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	constraintOneSuccessfulPayment = "uq_payments_one_success"
	scopeTransactionRef            = "payment.transaction_ref"
)

var (
	ErrAlreadyPaid       = errs.Mark(errs.New("reservation already has a successful payment"), errs.ErrInvalidTransition)
	ErrPaymentNotAllowed = errs.Mark(errs.New("only the reservation owner can pay for it"), errs.ErrForbidden)
)

// Gateway charges the customer. Only its result is consumed here. Charge is
// called at most once per idempotency key; requests without a key get no
// such protection.
type Gateway interface {
	Charge(ctx context.Context, reservationID uuid.UUID, amount reservation.Money) (payment.Result, error)
}

type PaymentCommands interface {
	// ConfirmPayment applies a gateway result to a pending reservation.
	ConfirmPayment(ctx context.Context, reservationID uuid.UUID, result payment.Result, idempotencyKey string) (*reservation.Reservation, error)
	// ProcessPayment charges the gateway on behalf of the owner and confirms with the result.
	ProcessPayment(ctx context.Context, actor user.Actor, reservationID uuid.UUID, idempotencyKey string) (*reservation.Reservation, error)
}

type paymentCommandsImpl struct {
	uow      shared.UnitOfWork
	gateway  Gateway
	guard    *IdempotencyGuard
	notifier *Notifier
	clock    clock.Clock
	metrics  *metrics.Metrics
}

func NewPaymentCommands(
	uow shared.UnitOfWork,
	gateway Gateway,
	guard *IdempotencyGuard,
	notifier *Notifier,
	clk clock.Clock,
	m *metrics.Metrics,
) PaymentCommands {
	return &paymentCommandsImpl{
		uow:      uow,
		gateway:  gateway,
		guard:    guard,
		notifier: notifier,
		clock:    clk,
		metrics:  m,
	}
}

func (p *paymentCommandsImpl) ConfirmPayment(ctx context.Context, reservationID uuid.UUID, result payment.Result, idempotencyKey string) (*reservation.Reservation, error) {
	// Gateway callbacks carry no user; their keys share the system owner.
	token, err := p.guard.Admit(ctx, ScopePaymentConfirm, uuid.Nil, idempotencyKey)
	if err != nil {
		return nil, err
	}
	return p.confirm(ctx, reservationID, result, token)
}

func (p *paymentCommandsImpl) ProcessPayment(ctx context.Context, actor user.Actor, reservationID uuid.UUID, idempotencyKey string) (*reservation.Reservation, error) {
	token, err := p.guard.Admit(ctx, ScopePaymentProcess, actor.ID, idempotencyKey)
	if err != nil {
		return nil, err
	}

	snap, err := p.uow.CommandReads().ReservationByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if snap.UserID != actor.ID {
		return nil, ErrPaymentNotAllowed
	}
	if snap.Status != reservation.StatusPending.String() {
		return nil, errs.Wrapf(reservation.ErrNotPending, "status %s", snap.Status)
	}

	amount, err := reservation.NewMoney(snap.TotalAmountCents)
	if err != nil {
		return nil, err
	}

	// The claim is committed before charging so a concurrent retry with the
	// same key is turned away instead of charging twice. Once the charge has
	// happened the claim is kept even if confirm fails.
	token, err = p.guard.Claim(ctx, token, reservationID)
	if err != nil {
		return nil, err
	}

	// The charge runs outside any transaction; confirm re-checks the status.
	result, err := p.gateway.Charge(ctx, reservationID, amount)
	if err != nil {
		p.guard.Release(ctx, token)
		return nil, errs.Wrap(err, "payment gateway charge failed")
	}

	return p.confirm(ctx, reservationID, result, token)
}

func (p *paymentCommandsImpl) confirm(ctx context.Context, reservationID uuid.UUID, result payment.Result, token IdempotencyToken) (*reservation.Reservation, error) {
	var (
		res    *reservation.Reservation
		record *shared.IdempotencyRecord
	)
	err := p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		r, err := tx.Reservations().FindByID(ctx, reservationID)
		if err != nil {
			return err
		}
		if r.Status() != reservation.StatusPending {
			return errs.Wrapf(reservation.ErrNotPending, "status %s", r.Status())
		}

		now := p.clock.Now()
		pay, err := payment.NewPayment(r.ID(), r.Total().Cents(), result, now)
		if err != nil {
			return err
		}
		if err := tx.Payments().Create(ctx, pay); err != nil {
			return p.mapPaymentErr(err, pay)
		}

		if result.Outcome.Succeeded() {
			if err := r.Confirm(); err != nil {
				return err
			}
			if err := tx.Reservations().UpdateStatus(ctx, r, now); err != nil {
				return err
			}
		}

		record, err = p.guard.Commit(ctx, tx, token, result.Outcome.String(), r.ID())
		if err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.guard.Remember(ctx, record)
	p.metrics.Payments.WithLabelValues(result.Outcome.String()).Inc()
	slog.InfoContext(ctx, "payment recorded",
		"reservation_id", res.ID().String(),
		"outcome", result.Outcome.String(),
		"transaction_ref", result.TransactionRef)

	attrs := map[string]string{"transaction_ref": result.TransactionRef}
	if result.Outcome.Succeeded() {
		p.notifier.Notify(ctx, EventPaymentConfirmed, res, attrs)
	} else {
		p.notifier.Notify(ctx, EventPaymentFailed, res, attrs)
	}
	return res, nil
}

func (p *paymentCommandsImpl) mapPaymentErr(err error, pay *payment.Payment) error {
	if !infra.IsKind(err, infra.KindDuplicateKey) {
		return err
	}
	if infra.ConstraintName(err) == constraintOneSuccessfulPayment {
		return ErrAlreadyPaid
	}
	return &errs.DuplicateRequestError{
		Scope:    scopeTransactionRef,
		Key:      pay.TransactionRef(),
		Outcome:  pay.Outcome().String(),
		EntityID: pay.ReservationID(),
	}
}
