//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"

	"car-rental-core/internal/domain/payment"
	"car-rental-core/internal/domain/reservation"
	"car-rental-core/internal/domain/user"
	"car-rental-core/internal/pkg/errs"
	"car-rental-core/internal/usecase/commands"
	"car-rental-core/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func paymentSucceeded(ref string) payment.Result {
	return payment.Result{Outcome: payment.OutcomeSucceeded, TransactionRef: ref}
}

func paymentFailed(ref string) payment.Result {
	return payment.Result{Outcome: payment.OutcomeFailed, TransactionRef: ref}
}

func TestConfirmPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("success confirms the reservation", func(t *testing.T) {
		h := newHarness(t)
		seeded := h.seed(builder.NewReservationBuilder().WithTotal(15000))

		res, err := h.payments.ConfirmPayment(ctx, seeded.ID(), paymentSucceeded("txn-1"), "")
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusConfirmed, res.Status())

		row, _ := h.store.Reservation(seeded.ID())
		assert.Equal(t, reservation.StatusConfirmed, row.Status)

		payments := h.store.Payments()
		require.Len(t, payments, 1)
		assert.Equal(t, int64(15000), payments[0].AmountCents)
		assert.Equal(t, payment.OutcomeSucceeded, payments[0].Outcome)
		assert.Equal(t, "txn-1", payments[0].TransactionRef)

		require.Equal(t, []string{commands.EventPaymentConfirmed}, h.store.JobKinds())
		assert.Equal(t, "txn-1", decodeEvent(t, h.store.Jobs()[0]).Attributes["transaction_ref"])
	})

	t.Run("failure keeps the reservation pending", func(t *testing.T) {
		h := newHarness(t)
		seeded := h.seed(builder.NewReservationBuilder())

		res, err := h.payments.ConfirmPayment(ctx, seeded.ID(), paymentFailed("txn-1"), "")
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusPending, res.Status())

		row, _ := h.store.Reservation(seeded.ID())
		assert.Equal(t, reservation.StatusPending, row.Status)
		require.Len(t, h.store.Payments(), 1)
		assert.Equal(t, payment.OutcomeFailed, h.store.Payments()[0].Outcome)
		assert.Equal(t, []string{commands.EventPaymentFailed}, h.store.JobKinds())

		// A retry after a failed attempt can still confirm.
		res, err = h.payments.ConfirmPayment(ctx, seeded.ID(), paymentSucceeded("txn-2"), "")
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusConfirmed, res.Status())
		assert.Len(t, h.store.Payments(), 2)
	})

	t.Run("only pending reservations accept a payment", func(t *testing.T) {
		for _, st := range []reservation.Status{reservation.StatusConfirmed, reservation.StatusCancelled, reservation.StatusCompleted} {
			t.Run(st.String(), func(t *testing.T) {
				h := newHarness(t)
				seeded := h.seed(builder.NewReservationBuilder().WithStatus(st))

				_, err := h.payments.ConfirmPayment(ctx, seeded.ID(), paymentSucceeded("txn-1"), "")
				assert.ErrorIs(t, err, reservation.ErrNotPending)
				assert.True(t, errs.Is(err, errs.ErrInvalidTransition))
				assert.Empty(t, h.store.Payments())

				row, _ := h.store.Reservation(seeded.ID())
				assert.Equal(t, st, row.Status)
			})
		}
	})

	t.Run("a reused transaction reference is a duplicate", func(t *testing.T) {
		h := newHarness(t)
		first := h.seed(builder.NewReservationBuilder())
		second := h.seed(builder.NewReservationBuilder())

		_, err := h.payments.ConfirmPayment(ctx, first.ID(), paymentSucceeded("txn-1"), "")
		require.NoError(t, err)

		_, err = h.payments.ConfirmPayment(ctx, second.ID(), paymentSucceeded("txn-1"), "")
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.ErrDuplicateRequest))

		var dup *errs.DuplicateRequestError
		require.True(t, errs.As(err, &dup))
		assert.Equal(t, "txn-1", dup.Key)

		row, _ := h.store.Reservation(second.ID())
		assert.Equal(t, reservation.StatusPending, row.Status)
		assert.Len(t, h.store.Payments(), 1)
	})

	t.Run("replayed key does not record a second payment", func(t *testing.T) {
		h := newHarness(t)
		seeded := h.seed(builder.NewReservationBuilder())

		_, err := h.payments.ConfirmPayment(ctx, seeded.ID(), paymentFailed("txn-1"), "cb-1")
		require.NoError(t, err)

		_, err = h.payments.ConfirmPayment(ctx, seeded.ID(), paymentFailed("txn-1"), "cb-1")
		var dup *errs.DuplicateRequestError
		require.True(t, errs.As(err, &dup))
		assert.Equal(t, commands.ScopePaymentConfirm, dup.Scope)
		assert.Equal(t, payment.OutcomeFailed.String(), dup.Outcome)
		assert.Len(t, h.store.Payments(), 1)
	})

	t.Run("invalid gateway result is rejected", func(t *testing.T) {
		h := newHarness(t)
		seeded := h.seed(builder.NewReservationBuilder())

		_, err := h.payments.ConfirmPayment(ctx, seeded.ID(), payment.Result{Outcome: payment.OutcomeSucceeded}, "")
		assert.ErrorIs(t, err, payment.ErrEmptyTransactionRef)
		assert.Empty(t, h.store.Payments())
	})

	t.Run("unknown reservation is not found", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.payments.ConfirmPayment(ctx, uuid.New(), paymentSucceeded("txn-1"), "")
		assert.True(t, errs.Is(err, errs.ErrNotFound))
	})
}

func TestProcessPayment(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	customer := user.NewActor(owner, user.RoleCustomer)

	t.Run("charges the total and confirms", func(t *testing.T) {
		h := newHarness(t)
		seeded := h.seed(builder.NewReservationBuilder().WithUserID(owner).WithTotal(15000))

		h.gateway.EXPECT().
			Charge(gomock.Any(), seeded.ID(), reservation.MustMoney(15000)).
			Return(paymentSucceeded("sim-1"), nil).
			Times(1)

		res, err := h.payments.ProcessPayment(ctx, customer, seeded.ID(), "pay-1")
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusConfirmed, res.Status())
		assert.Equal(t, "sim-1", h.store.Payments()[0].TransactionRef)
	})

	t.Run("only the owner may pay", func(t *testing.T) {
		h := newHarness(t)
		seeded := h.seed(builder.NewReservationBuilder().WithUserID(owner))

		_, err := h.payments.ProcessPayment(ctx, user.NewActor(uuid.New(), user.RoleCustomer), seeded.ID(), "")
		assert.ErrorIs(t, err, commands.ErrPaymentNotAllowed)
		assert.True(t, errs.Is(err, errs.ErrForbidden))
	})

	t.Run("non-pending reservation is not charged", func(t *testing.T) {
		h := newHarness(t)
		seeded := h.seed(builder.NewReservationBuilder().WithUserID(owner).Confirmed())

		_, err := h.payments.ProcessPayment(ctx, customer, seeded.ID(), "")
		assert.True(t, errs.Is(err, errs.ErrInvalidTransition))
	})

	t.Run("gateway error leaves no payment", func(t *testing.T) {
		h := newHarness(t)
		seeded := h.seed(builder.NewReservationBuilder().WithUserID(owner))

		h.gateway.EXPECT().Charge(gomock.Any(), seeded.ID(), gomock.Any()).
			Return(payment.Result{}, errors.New("gateway timeout"))

		_, err := h.payments.ProcessPayment(ctx, customer, seeded.ID(), "pay-1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gateway timeout")
		assert.Empty(t, h.store.Payments())

		row, _ := h.store.Reservation(seeded.ID())
		assert.Equal(t, reservation.StatusPending, row.Status)
	})

	t.Run("replayed key skips the gateway", func(t *testing.T) {
		h := newHarness(t)
		seeded := h.seed(builder.NewReservationBuilder().WithUserID(owner))

		h.gateway.EXPECT().Charge(gomock.Any(), seeded.ID(), gomock.Any()).
			Return(paymentSucceeded("sim-1"), nil).
			Times(1)

		_, err := h.payments.ProcessPayment(ctx, customer, seeded.ID(), "pay-1")
		require.NoError(t, err)

		_, err = h.payments.ProcessPayment(ctx, customer, seeded.ID(), "pay-1")
		assert.True(t, errs.Is(err, errs.ErrDuplicateRequest))

		recs := h.store.IdempotencyRecords()
		require.Len(t, recs, 1)
		assert.Equal(t, owner, recs[0].OwnerID)
		assert.Equal(t, payment.OutcomeSucceeded.String(), recs[0].Outcome)
	})

	t.Run("same key during an in-flight charge is turned away", func(t *testing.T) {
		h := newHarness(t)
		seeded := h.seed(builder.NewReservationBuilder().WithUserID(owner))

		var inFlight error
		h.gateway.EXPECT().Charge(gomock.Any(), seeded.ID(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, _ uuid.UUID, _ reservation.Money) (payment.Result, error) {
				_, inFlight = h.payments.ProcessPayment(ctx, customer, seeded.ID(), "pay-1")
				return paymentSucceeded("sim-1"), nil
			}).
			Times(1)

		res, err := h.payments.ProcessPayment(ctx, customer, seeded.ID(), "pay-1")
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusConfirmed, res.Status())

		var dup *errs.DuplicateRequestError
		require.True(t, errs.As(inFlight, &dup))
		assert.Equal(t, commands.OutcomeProcessing, dup.Outcome)
		assert.Len(t, h.store.Payments(), 1)
	})

	t.Run("gateway error releases the key", func(t *testing.T) {
		h := newHarness(t)
		seeded := h.seed(builder.NewReservationBuilder().WithUserID(owner))

		gomock.InOrder(
			h.gateway.EXPECT().Charge(gomock.Any(), seeded.ID(), gomock.Any()).
				Return(payment.Result{}, errors.New("gateway timeout")),
			h.gateway.EXPECT().Charge(gomock.Any(), seeded.ID(), gomock.Any()).
				Return(paymentSucceeded("sim-2"), nil),
		)

		_, err := h.payments.ProcessPayment(ctx, customer, seeded.ID(), "pay-1")
		require.Error(t, err)
		assert.Empty(t, h.store.IdempotencyRecords())

		res, err := h.payments.ProcessPayment(ctx, customer, seeded.ID(), "pay-1")
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusConfirmed, res.Status())
	})
}

func TestIdempotencyGuard_Claim(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	guard := commands.NewIdempotencyGuard(h.store, nil, h.clock, idempotencyTTL, h.metrics)
	owner := uuid.New()
	entity := uuid.New()

	// Both requests pass Admit before either claims.
	first, err := guard.Admit(ctx, commands.ScopePaymentProcess, owner, "pay-1")
	require.NoError(t, err)
	second, err := guard.Admit(ctx, commands.ScopePaymentProcess, owner, "pay-1")
	require.NoError(t, err)

	first, err = guard.Claim(ctx, first, entity)
	require.NoError(t, err)

	_, err = guard.Claim(ctx, second, entity)
	var dup *errs.DuplicateRequestError
	require.True(t, errs.As(err, &dup))
	assert.Equal(t, commands.OutcomeProcessing, dup.Outcome)

	other, err := guard.Admit(ctx, commands.ScopePaymentProcess, uuid.New(), "pay-1")
	require.NoError(t, err)
	_, err = guard.Claim(ctx, other, entity)
	assert.NoError(t, err, "another owner's key is independent")

	guard.Release(ctx, first)
	retry, err := guard.Admit(ctx, commands.ScopePaymentProcess, owner, "pay-1")
	require.NoError(t, err)
	assert.True(t, retry.Tracked())
}
