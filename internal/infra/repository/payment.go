package repository

import (
	"context"

	"car-rental-core/internal/domain/payment"
	"car-rental-core/internal/infra"
	sqlc "car-rental-core/internal/infra/sqlc/generated"
	"car-rental-core/internal/pkg/pgconv"
)

type PaymentWriteQueries interface {
	CreatePayment(ctx context.Context, db sqlc.DBTX, arg sqlc.CreatePaymentParams) error
}

type PaymentRepository struct {
	queries PaymentWriteQueries
	db      sqlc.DBTX
}

func NewPaymentRepository(queries PaymentWriteQueries, db sqlc.DBTX) *PaymentRepository {
	return &PaymentRepository{
		queries: queries,
		db:      db,
	}
}

// Create reports a reused transaction reference or a second successful
// payment for the same reservation as KindDuplicateKey.
func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	err := r.queries.CreatePayment(ctx, r.db, sqlc.CreatePaymentParams{
		ID:             p.ID(),
		ReservationID:  p.ReservationID(),
		AmountCents:    p.AmountCents(),
		Outcome:        p.Outcome().String(),
		TransactionRef: p.TransactionRef(),
		CreatedAt:      pgconv.TimeToPgtype(p.CreatedAt()),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to record payment", err)
	}
	return nil
}
