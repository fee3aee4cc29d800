package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"car-rental-core/internal/pkg/errs"
	"car-rental-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type Config struct {
	Addr     string
	Password string // optional
	DB       int    // optional
}

func NewClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errs.Wrap(err, "failed to ping redis")
	}

	return client, nil
}

// RedisIdempotencyCache is a write-through front for the idempotency_keys
// table. Postgres stays authoritative; a nil client turns every call into a miss.
type RedisIdempotencyCache struct {
	client *redis.Client
}

func NewRedisIdempotencyCache(client *redis.Client) *RedisIdempotencyCache {
	return &RedisIdempotencyCache{client: client}
}

func cacheKey(scope string, owner uuid.UUID, key string) string {
	return fmt.Sprintf("idempotency:%s:%s:%s", scope, owner, key)
}

func (c *RedisIdempotencyCache) Get(ctx context.Context, scope string, owner uuid.UUID, key string) (*shared.IdempotencyRecord, error) {
	if c.client == nil {
		return nil, nil
	}

	raw, err := c.client.Get(ctx, cacheKey(scope, owner, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Wrap(err, "failed to read idempotency cache")
	}

	var rec shared.IdempotencyRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, errs.Wrap(err, "failed to decode idempotency cache entry")
	}
	return &rec, nil
}

func (c *RedisIdempotencyCache) Put(ctx context.Context, rec shared.IdempotencyRecord, now time.Time) error {
	if c.client == nil {
		return nil
	}

	ttl := rec.ExpiresAt.Sub(now)
	if ttl <= 0 {
		return nil
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return errs.Wrap(err, "failed to encode idempotency cache entry")
	}
	if err := c.client.Set(ctx, cacheKey(rec.Scope, rec.OwnerID, rec.Key), raw, ttl).Err(); err != nil {
		return errs.Wrap(err, "failed to write idempotency cache")
	}
	return nil
}
