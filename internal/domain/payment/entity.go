package payment

import (
	"strings"
	"time"

	"car-rental-core/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrUnknownOutcome        = errs.Mark(errs.New("unknown payment outcome"), errs.ErrValidation)
	ErrEmptyTransactionRef   = errs.Mark(errs.New("transaction reference is required"), errs.ErrValidation)
	ErrNegativePaymentAmount = errs.Mark(errs.New("payment amount cannot be negative"), errs.ErrValidation)
)

type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
)

func ParseOutcome(s string) (Outcome, error) {
	switch o := Outcome(s); o {
	case OutcomeSucceeded, OutcomeFailed:
		return o, nil
	default:
		return "", errs.Wrapf(ErrUnknownOutcome, "outcome %q", s)
	}
}

func (o Outcome) String() string {
	return string(o)
}

func (o Outcome) Succeeded() bool {
	return o == OutcomeSucceeded
}

// Result is what the payment gateway reports back for one charge.
type Result struct {
	Outcome        Outcome
	TransactionRef string
}

// Payment is an attempt to pay for a reservation. Failed attempts are kept.
type Payment struct {
	id             uuid.UUID
	reservationID  uuid.UUID
	amountCents    int64
	outcome        Outcome
	transactionRef string
	createdAt      time.Time
}

func NewPayment(reservationID uuid.UUID, amountCents int64, result Result, now time.Time) (*Payment, error) {
	if amountCents < 0 {
		return nil, ErrNegativePaymentAmount
	}
	if _, err := ParseOutcome(string(result.Outcome)); err != nil {
		return nil, err
	}
	ref := strings.TrimSpace(result.TransactionRef)
	if ref == "" {
		return nil, ErrEmptyTransactionRef
	}
	return &Payment{
		id:             uuid.New(),
		reservationID:  reservationID,
		amountCents:    amountCents,
		outcome:        result.Outcome,
		transactionRef: ref,
		createdAt:      now,
	}, nil
}

func (p *Payment) ID() uuid.UUID            { return p.id }
func (p *Payment) ReservationID() uuid.UUID { return p.reservationID }
func (p *Payment) AmountCents() int64       { return p.amountCents }
func (p *Payment) Outcome() Outcome         { return p.outcome }
func (p *Payment) TransactionRef() string   { return p.transactionRef }
func (p *Payment) CreatedAt() time.Time     { return p.createdAt }
