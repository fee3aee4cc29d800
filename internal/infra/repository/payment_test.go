//go:build unit

package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"car-rental-core/internal/domain/payment"
	"car-rental-core/internal/infra"
	"car-rental-core/internal/infra/repository"
	sqlc "car-rental-core/internal/infra/sqlc/generated"
	repositorymock "car-rental-core/tests/mock/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestPaymentRepository_Create(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name       string
		returnErr  error
		expectKind infra.RepositoryErrorKind
		constraint string
	}{
		{name: "success: payment recorded"},
		{
			name:       "error: transaction reference reused",
			returnErr:  &pgconn.PgError{Code: "23505", ConstraintName: "payments_transaction_ref_key"},
			expectKind: infra.KindDuplicateKey,
			constraint: "payments_transaction_ref_key",
		},
		{
			name:       "error: second successful payment",
			returnErr:  &pgconn.PgError{Code: "23505", ConstraintName: "payments_one_success_per_reservation"},
			expectKind: infra.KindDuplicateKey,
			constraint: "payments_one_success_per_reservation",
		},
		{
			name:       "error: database error occurs",
			returnErr:  errors.New("database connection error"),
			expectKind: infra.KindDBFailure,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockQueries := repositorymock.NewMockPaymentWriteQueries(ctrl)
			mockDB := &mockDBTX{}
			repo := repository.NewPaymentRepository(mockQueries, mockDB)

			p, err := payment.NewPayment(uuid.New(), 15000, payment.Result{Outcome: payment.OutcomeSucceeded, TransactionRef: "txn-1"}, time.Now())
			require.NoError(t, err)

			mockQueries.EXPECT().CreatePayment(ctx, mockDB, gomock.Any()).
				DoAndReturn(func(_ context.Context, _ sqlc.DBTX, arg sqlc.CreatePaymentParams) error {
					assert.Equal(t, p.ReservationID(), arg.ReservationID)
					assert.Equal(t, "succeeded", arg.Outcome)
					assert.Equal(t, "txn-1", arg.TransactionRef)
					return tc.returnErr
				})

			err = repo.Create(ctx, p)

			if tc.expectKind == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, infra.IsKind(err, tc.expectKind), "expected kind [%v] but got (%v)", tc.expectKind, err)
			assert.Equal(t, tc.constraint, infra.ConstraintName(err))
		})
	}
}

func pgtypeTime(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

type mockDBTX struct{}

func (m *mockDBTX) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (m *mockDBTX) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (m *mockDBTX) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("mockDBTX.QueryRow was called unexpectedly. Use sqlc mock instead.")
}
