package request

import (
	"strings"

	"car-rental-core/internal/domain/payment"

	"github.com/google/uuid"
)

type ProcessPaymentRequest struct {
	ReservationID uuid.UUID `json:"reservation_id" binding:"required"`
}

// ConfirmPaymentRequest is the gateway callback body.
type ConfirmPaymentRequest struct {
	ReservationID  uuid.UUID `json:"reservation_id" binding:"required"`
	Outcome        string    `json:"outcome" binding:"required" enums:"succeeded,failed"`
	TransactionRef string    `json:"transaction_ref" binding:"required"`
}

func (r ConfirmPaymentRequest) ToResult() (payment.Result, error) {
	outcome, err := payment.ParseOutcome(strings.ToLower(strings.TrimSpace(r.Outcome)))
	if err != nil {
		return payment.Result{}, err
	}
	return payment.Result{
		Outcome:        outcome,
		TransactionRef: strings.TrimSpace(r.TransactionRef),
	}, nil
}
