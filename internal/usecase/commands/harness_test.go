//go:build unit

package commands_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"car-rental-core/internal/domain/reservation"
	"car-rental-core/internal/domain/vehicle"
	"car-rental-core/internal/pkg/clock"
	"car-rental-core/internal/pkg/metrics"
	"car-rental-core/internal/usecase/commands"
	"car-rental-core/internal/usecase/shared"
	"car-rental-core/tests/common/builder"
	"car-rental-core/tests/common/memstore"
	commandsmock "car-rental-core/tests/mock/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const idempotencyTTL = 24 * time.Hour

var baseNow = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

type harness struct {
	store        *memstore.Store
	clock        *clock.MockClock
	metrics      *metrics.Metrics
	cache        *fakeCache
	gateway      *commandsmock.MockGateway
	notifier     *commands.Notifier
	reservations commands.ReservationCommands
	payments     commands.PaymentCommands
	sweeper      commands.LifecycleSweeper
	reminders    commands.ReminderCommands
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		store:   memstore.New(),
		clock:   clock.NewMockClock(baseNow),
		metrics: metrics.NewNop(),
		cache:   newFakeCache(),
		gateway: commandsmock.NewMockGateway(gomock.NewController(t)),
	}
	factory := reservation.NewFactory(h.clock, reservation.NewDayRateCalculator())
	guard := commands.NewIdempotencyGuard(h.store, h.cache, h.clock, idempotencyTTL, h.metrics)
	h.notifier = commands.NewNotifier(h.store, h.clock)
	h.reservations = commands.NewReservationCommands(h.store, factory, guard, h.notifier, h.clock, h.metrics)
	h.payments = commands.NewPaymentCommands(h.store, h.gateway, guard, h.notifier, h.clock, h.metrics)
	h.sweeper = commands.NewLifecycleSweeper(h.store, h.notifier, h.metrics, commands.SweepConfig{
		PaymentTimeout: 30 * time.Minute,
		BatchSize:      2,
	})
	h.reminders = commands.NewReminderCommands(h.store, h.notifier, h.metrics, 2)
	return h
}

func (h *harness) addVehicle(b *builder.VehicleBuilder) *vehicle.Vehicle {
	v := b.BuildDomain()
	h.store.AddVehicle(v)
	return v
}

func (h *harness) seed(b *builder.ReservationBuilder) *reservation.Reservation {
	res := b.BuildDomain()
	h.store.PutReservation(res)
	return res
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := reservation.ParseDate(s)
	require.NoError(t, err)
	return d
}

func decodeEvent(t *testing.T, job memstore.JobRow) commands.ReservationEvent {
	t.Helper()
	var ev commands.ReservationEvent
	require.NoError(t, json.Unmarshal(job.Payload, &ev))
	return ev
}

// fakeCache records what the guard writes through.
type fakeCache struct {
	mu      sync.Mutex
	records map[string]shared.IdempotencyRecord
	puts    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{records: map[string]shared.IdempotencyRecord{}}
}

func cacheID(scope string, owner uuid.UUID, key string) string {
	return scope + "/" + owner.String() + "/" + key
}

func (c *fakeCache) Get(_ context.Context, scope string, owner uuid.UUID, key string) (*shared.IdempotencyRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.records[cacheID(scope, owner, key)]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (c *fakeCache) Put(_ context.Context, rec shared.IdempotencyRecord, _ time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records[cacheID(rec.Scope, rec.OwnerID, rec.Key)] = rec
	c.puts++
	return nil
}

func (c *fakeCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = map[string]shared.IdempotencyRecord{}
}

func (c *fakeCache) putCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.puts
}
