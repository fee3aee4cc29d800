package gateway

import (
	"context"
	"log/slog"

	"car-rental-core/internal/domain/payment"
	"car-rental-core/internal/domain/reservation"

	"github.com/google/uuid"
)

// SimulatedGateway approves every charge. It stands in for a card processor
// until a real one is configured.
type SimulatedGateway struct{}

func NewSimulatedGateway() *SimulatedGateway {
	return &SimulatedGateway{}
}

func (g *SimulatedGateway) Charge(ctx context.Context, reservationID uuid.UUID, amount reservation.Money) (payment.Result, error) {
	ref := "sim_" + uuid.NewString()
	slog.InfoContext(ctx, "simulated charge",
		"reservation_id", reservationID.String(),
		"amount_cents", amount.Cents(),
		"transaction_ref", ref)
	return payment.Result{Outcome: payment.OutcomeSucceeded, TransactionRef: ref}, nil
}
