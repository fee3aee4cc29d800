//go:build unit

package queries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"car-rental-core/internal/domain/user"
	"car-rental-core/internal/pkg/errs"
	"car-rental-core/internal/usecase/queries"
	queriesmock "car-rental-core/tests/mock/queries"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var base = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func views(userID uuid.UUID, n int) []*queries.ReservationView {
	out := make([]*queries.ReservationView, n)
	for i := range out {
		out[i] = &queries.ReservationView{
			ID:        uuid.New(),
			UserID:    userID,
			Status:    "pending",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
	}
	return out
}

func TestReservationQueries_Get(t *testing.T) {
	ctx := context.Background()
	owner := user.NewActor(uuid.New(), user.RoleCustomer)
	stranger := user.NewActor(uuid.New(), user.RoleCustomer)
	admin := user.NewActor(uuid.New(), user.RoleAdmin)
	view := views(owner.ID, 1)[0]

	cases := []struct {
		name    string
		actor   user.Actor
		wantErr error
	}{
		{name: "owner sees own reservation", actor: owner},
		{name: "admin sees any reservation", actor: admin},
		{name: "other user is forbidden", actor: stranger, wantErr: errs.ErrForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := queriesmock.NewMockReservationReadStore(ctrl)
			store.EXPECT().FindByID(ctx, view.ID).Return(view, nil)

			got, err := queries.NewReservationQueries(store).Get(ctx, tc.actor, view.ID)

			if tc.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errs.Is(err, tc.wantErr))
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Same(t, view, got)
		})
	}
}

func TestReservationQueries_ListPage(t *testing.T) {
	ctx := context.Background()
	customer := user.NewActor(uuid.New(), user.RoleCustomer)
	admin := user.NewActor(uuid.New(), user.RoleAdmin)

	t.Run("customer is filtered to own rows and gets a cursor", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockReservationReadStore(ctrl)
		rows := views(customer.ID, 3)
		store.EXPECT().ListAfter(ctx, &customer.ID, time.Time{}, uuid.Nil, int32(3)).Return(rows, nil)

		page, err := queries.NewReservationQueries(store).ListPage(ctx, customer, "", 2)

		require.NoError(t, err)
		if diff := cmp.Diff(rows[:2], page.Items); diff != "" {
			t.Errorf("items mismatch (-want +got):\n%s", diff)
		}
		at, id, err := queries.DecodeAfterCursor(page.NextCursor)
		require.NoError(t, err)
		assert.Equal(t, rows[1].CreatedAt, at)
		assert.Equal(t, rows[1].ID, id)
	})

	t.Run("admin lists everyone and last page has no cursor", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockReservationReadStore(ctrl)
		after := views(uuid.New(), 1)[0]
		cursor := queries.EncodeAfterCursor(after.CreatedAt, after.ID)
		rows := views(uuid.New(), 2)
		store.EXPECT().ListAfter(ctx, (*uuid.UUID)(nil), after.CreatedAt, after.ID, int32(queries.DefaultListLimit+1)).Return(rows, nil)

		page, err := queries.NewReservationQueries(store).ListPage(ctx, admin, cursor, 0)

		require.NoError(t, err)
		assert.Len(t, page.Items, 2)
		assert.Empty(t, page.NextCursor)
	})

	t.Run("bad cursor never reaches the store", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockReservationReadStore(ctrl)

		_, err := queries.NewReservationQueries(store).ListPage(ctx, admin, "garbage", 10)
		assert.ErrorIs(t, err, queries.ErrInvalidCursor)
	})
}

func TestReservationQueries_List(t *testing.T) {
	ctx := context.Background()
	customer := user.NewActor(uuid.New(), user.RoleCustomer)

	t.Run("walks every page", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockReservationReadStore(ctrl)
		first := views(customer.ID, 100)
		second := views(customer.ID, 5)
		last := first[len(first)-1]

		gomock.InOrder(
			store.EXPECT().ListAfter(ctx, &customer.ID, time.Time{}, uuid.Nil, int32(100)).Return(first, nil),
			store.EXPECT().ListAfter(ctx, &customer.ID, last.CreatedAt, last.ID, int32(100)).Return(second, nil),
		)

		var got int
		for view, err := range queries.NewReservationQueries(store).List(ctx, customer) {
			require.NoError(t, err)
			require.NotNil(t, view)
			got++
		}
		assert.Equal(t, 105, got)
	})

	t.Run("stops when the caller breaks", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockReservationReadStore(ctrl)
		store.EXPECT().ListAfter(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(views(customer.ID, 100), nil).Times(1)

		for range queries.NewReservationQueries(store).List(ctx, customer) {
			break
		}
	})

	t.Run("yields the store error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockReservationReadStore(ctrl)
		boom := errors.New("connection reset")
		store.EXPECT().ListAfter(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, boom)

		var gotErr error
		for _, err := range queries.NewReservationQueries(store).List(ctx, customer) {
			gotErr = err
		}
		assert.ErrorIs(t, gotErr, boom)
	})
}
