//go:build unit

package cache

import (
	"context"
	"testing"
	"time"

	"car-rental-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisIdempotencyCache_Disabled(t *testing.T) {
	c := NewRedisIdempotencyCache(nil)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	rec, err := c.Get(context.Background(), "reservation.create", uuid.New(), "k")
	require.NoError(t, err)
	assert.Nil(t, rec)

	assert.NoError(t, c.Put(context.Background(), shared.IdempotencyRecord{
		Scope: "reservation.create", Key: "k", EntityID: uuid.New(), ExpiresAt: now.Add(time.Hour),
	}, now))
}

func TestRedisIdempotencyCache_ExpiredRecordSkipsWrite(t *testing.T) {
	// Nothing listens here; a write attempt would fail with a dial error.
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 50 * time.Millisecond})
	t.Cleanup(func() { _ = client.Close() })
	c := NewRedisIdempotencyCache(client)
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	err := c.Put(context.Background(), shared.IdempotencyRecord{
		Scope: "payment.confirm", Key: "k", ExpiresAt: now.Add(-time.Second),
	}, now)

	assert.NoError(t, err)
}

func TestCacheKey(t *testing.T) {
	owner := uuid.MustParse("7f9c24e8-3b12-4fdd-a0a6-5b1c8a3d2e10")
	assert.Equal(t, "idempotency:payment.process:7f9c24e8-3b12-4fdd-a0a6-5b1c8a3d2e10:abc", cacheKey("payment.process", owner, "abc"))
	assert.Equal(t, "idempotency:payment.confirm:00000000-0000-0000-0000-000000000000:abc", cacheKey("payment.confirm", uuid.Nil, "abc"))
	assert.NotEqual(t, cacheKey("reservation.create", owner, "k"), cacheKey("reservation.create", uuid.New(), "k"),
		"the same key from two users maps to separate entries")
}
