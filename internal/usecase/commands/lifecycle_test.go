//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"car-rental-core/internal/domain/reservation"
	"car-rental-core/internal/domain/user"
	"car-rental-core/internal/usecase/commands"
	"car-rental-core/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type LifecycleSweepTestSuite struct {
	suite.Suite
	h   *harness
	ctx context.Context
	now time.Time
}

func (s *LifecycleSweepTestSuite) SetupTest() {
	s.h = newHarness(s.T())
	s.ctx = context.Background()
	s.now = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	s.h.clock.Set(s.now)
}

func TestLifecycleSweepSuite(t *testing.T) {
	suite.Run(t, new(LifecycleSweepTestSuite))
}

func (s *LifecycleSweepTestSuite) seed(status reservation.Status, start, end string, createdAgo time.Duration) *reservation.Reservation {
	return s.h.seed(builder.NewReservationBuilder().
		WithStatus(status).
		WithDates(start, end).
		WithCreatedAt(s.now.Add(-createdAgo)))
}

func (s *LifecycleSweepTestSuite) status(id uuid.UUID) reservation.Status {
	row, ok := s.h.store.Reservation(id)
	s.Require().True(ok)
	return row.Status
}

func (s *LifecycleSweepTestSuite) TestPaymentTimeout() {
	stale := s.seed(reservation.StatusPending, "2024-01-20", "2024-01-22", 31*time.Minute)
	fresh := s.seed(reservation.StatusPending, "2024-01-20", "2024-01-22", 5*time.Minute)

	result, err := s.h.sweeper.RunLifecycleSweep(s.ctx, s.now)
	s.Require().NoError(err)

	s.Equal(commands.SweepResult{Cancelled: 1}, result)
	s.Equal(reservation.StatusCancelled, s.status(stale.ID()))
	s.Equal(reservation.StatusPending, s.status(fresh.ID()))

	s.Require().Equal([]string{commands.EventReservationExpired}, s.h.store.JobKinds())
	s.Equal(string(reservation.ExpiryPaymentTimeout), decodeEvent(s.T(), s.h.store.Jobs()[0]).Attributes["reason"])
}

func (s *LifecycleSweepTestSuite) TestCompletion() {
	ended := s.seed(reservation.StatusConfirmed, "2024-01-05", "2024-01-09", 48*time.Hour)
	endsToday := s.seed(reservation.StatusConfirmed, "2024-01-07", "2024-01-10", 48*time.Hour)
	cancelled := s.seed(reservation.StatusCancelled, "2024-01-01", "2024-01-03", 240*time.Hour)

	result, err := s.h.sweeper.RunLifecycleSweep(s.ctx, s.now)
	s.Require().NoError(err)

	s.Equal(commands.SweepResult{Completed: 1}, result)
	s.Equal(reservation.StatusCompleted, s.status(ended.ID()))
	s.Equal(reservation.StatusConfirmed, s.status(endsToday.ID()))
	s.Equal(reservation.StatusCancelled, s.status(cancelled.ID()))
	s.Equal([]string{commands.EventReservationCompleted}, s.h.store.JobKinds())
}

func (s *LifecycleSweepTestSuite) TestStartLapsed() {
	// Created a minute ago, so only the start date can expire it.
	lapsed := s.seed(reservation.StatusPending, "2024-01-09", "2024-01-12", time.Minute)
	today := s.seed(reservation.StatusPending, "2024-01-10", "2024-01-12", time.Minute)

	result, err := s.h.sweeper.RunLifecycleSweep(s.ctx, s.now)
	s.Require().NoError(err)

	s.Equal(1, result.Cancelled)
	s.Equal(reservation.StatusCancelled, s.status(lapsed.ID()))
	s.Equal(reservation.StatusPending, s.status(today.ID()))
	s.Equal(string(reservation.ExpiryStartLapsed), decodeEvent(s.T(), s.h.store.Jobs()[0]).Attributes["reason"])
}

func (s *LifecycleSweepTestSuite) TestRerunIsNoOp() {
	s.seed(reservation.StatusPending, "2024-01-20", "2024-01-22", time.Hour)
	s.seed(reservation.StatusConfirmed, "2024-01-01", "2024-01-05", 240*time.Hour)

	first, err := s.h.sweeper.RunLifecycleSweep(s.ctx, s.now)
	s.Require().NoError(err)
	s.Equal(commands.SweepResult{Completed: 1, Cancelled: 1}, first)
	jobs := len(s.h.store.Jobs())

	second, err := s.h.sweeper.RunLifecycleSweep(s.ctx, s.now)
	s.Require().NoError(err)
	s.Equal(commands.SweepResult{}, second)
	s.Len(s.h.store.Jobs(), jobs)
}

func (s *LifecycleSweepTestSuite) TestWorksThroughEveryPage() {
	// The harness sweeps two rows per page.
	var ids []uuid.UUID
	for range 5 {
		ids = append(ids, s.seed(reservation.StatusPending, "2024-01-20", "2024-01-22", time.Hour).ID())
	}

	result, err := s.h.sweeper.RunLifecycleSweep(s.ctx, s.now)
	s.Require().NoError(err)

	s.Equal(5, result.Cancelled)
	for _, id := range ids {
		s.Equal(reservation.StatusCancelled, s.status(id))
	}
}

func (s *LifecycleSweepTestSuite) TestFailingRowDoesNotStopTheSweep() {
	broken := s.seed(reservation.StatusPending, "2024-01-20", "2024-01-22", time.Hour)
	healthy := s.seed(reservation.StatusPending, "2024-01-20", "2024-01-22", time.Hour)
	ended := s.seed(reservation.StatusConfirmed, "2024-01-01", "2024-01-05", 240*time.Hour)
	s.h.store.FailUpdatesFor(broken.ID(), errors.New("connection reset"))

	result, err := s.h.sweeper.RunLifecycleSweep(s.ctx, s.now)
	s.Require().NoError(err)

	s.Equal(commands.SweepResult{Completed: 1, Cancelled: 1}, result)
	s.Equal(reservation.StatusPending, s.status(broken.ID()))
	s.Equal(reservation.StatusCancelled, s.status(healthy.ID()))
	s.Equal(reservation.StatusCompleted, s.status(ended.ID()))
}

func (s *LifecycleSweepTestSuite) TestPurgesExpiredIdempotencyKeys() {
	v := s.h.addVehicle(builder.NewVehicleBuilder())
	in := createInput(s.T(), v.ID(), "2024-01-15", "2024-01-16")
	_, err := s.h.reservations.CreateReservation(s.ctx, user.NewActor(uuid.New(), user.RoleCustomer), in, "key-1")
	s.Require().NoError(err)
	s.Len(s.h.store.IdempotencyRecords(), 1)

	_, err = s.h.sweeper.RunLifecycleSweep(s.ctx, s.now.Add(idempotencyTTL+time.Minute))
	s.Require().NoError(err)
	s.Empty(s.h.store.IdempotencyRecords())
}

func TestRunLifecycleSweep_CancelledContext(t *testing.T) {
	h := newHarness(t)
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	h.seed(builder.NewReservationBuilder().WithDates("2024-01-20", "2024-01-22").WithCreatedAt(now.Add(-time.Hour)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := h.sweeper.RunLifecycleSweep(ctx, now)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, result.Cancelled)
}
