package queries

import (
	"context"
	"iter"
	"time"

	"car-rental-core/internal/domain/user"
	"car-rental-core/internal/pkg/errs"

	"github.com/google/uuid"
)

// iteratePageSize bounds how many rows List holds in memory at once.
const iteratePageSize = 100

var ErrReservationNotVisible = errs.Mark(errs.New("reservation belongs to another user"), errs.ErrForbidden)

type ReservationQueries interface {
	Get(ctx context.Context, actor user.Actor, id uuid.UUID) (*ReservationView, error)
	// List yields every reservation visible to actor, oldest first. Ranging over
	// the result again restarts from the beginning.
	List(ctx context.Context, actor user.Actor) iter.Seq2[*ReservationView, error]
	ListPage(ctx context.Context, actor user.Actor, after string, limit int) (*ReservationPage, error)
}

type ReservationReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	// ListAfter returns rows strictly after (afterCreatedAt, afterID). A nil userID lists all users.
	ListAfter(ctx context.Context, userID *uuid.UUID, afterCreatedAt time.Time, afterID uuid.UUID, limit int32) ([]*ReservationView, error)
}

type reservationQueriesImpl struct {
	store ReservationReadStore
}

func NewReservationQueries(store ReservationReadStore) ReservationQueries {
	return &reservationQueriesImpl{store: store}
}

func (q *reservationQueriesImpl) Get(ctx context.Context, actor user.Actor, id uuid.UUID) (*ReservationView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(view.UserID) {
		return nil, ErrReservationNotVisible
	}
	return view, nil
}

func (q *reservationQueriesImpl) List(ctx context.Context, actor user.Actor) iter.Seq2[*ReservationView, error] {
	return func(yield func(*ReservationView, error) bool) {
		var (
			afterCreatedAt time.Time
			afterID        uuid.UUID
		)
		for {
			rows, err := q.store.ListAfter(ctx, ownerFilter(actor), afterCreatedAt, afterID, iteratePageSize)
			if err != nil {
				yield(nil, err)
				return
			}
			for _, row := range rows {
				if !yield(row, nil) {
					return
				}
			}
			if len(rows) < iteratePageSize {
				return
			}
			last := rows[len(rows)-1]
			afterCreatedAt, afterID = last.CreatedAt, last.ID
		}
	}
}

func (q *reservationQueriesImpl) ListPage(ctx context.Context, actor user.Actor, after string, limit int) (*ReservationPage, error) {
	limit = ValidateLimit(limit)

	var (
		afterCreatedAt time.Time
		afterID        uuid.UUID
	)
	if after != "" {
		var err error
		afterCreatedAt, afterID, err = DecodeAfterCursor(after)
		if err != nil {
			return nil, err
		}
	}

	// One extra row tells us whether another page exists.
	rows, err := q.store.ListAfter(ctx, ownerFilter(actor), afterCreatedAt, afterID, int32(limit+1)) // #nosec G115 -- limit is capped by ValidateLimit
	if err != nil {
		return nil, err
	}

	page := &ReservationPage{Items: rows}
	if len(rows) > limit {
		page.Items = rows[:limit]
		last := page.Items[limit-1]
		page.NextCursor = EncodeAfterCursor(last.CreatedAt, last.ID)
	}
	return page, nil
}

func ownerFilter(actor user.Actor) *uuid.UUID {
	if actor.IsAdmin() {
		return nil
	}
	id := actor.ID
	return &id
}
