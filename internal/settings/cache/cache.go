// Package cache keeps a short-lived Redis copy of the phone validation policy so
// checkout requests do not hit PostgreSQL for every phone field.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"checkout_phone_backend/internal/phonevalidation/policy"
)

const (
	// Key is the Redis key holding the policy snapshot.
	Key = "phone_validation:settings"
	// GenerationKey counts invalidations. A snapshot read from PostgreSQL is
	// only written back while the generation is the one seen before the read.
	GenerationKey = "phone_validation:settings:generation"
)

var errStaleGeneration = errors.New("settings generation moved")

// RedisCache stores a JSON policy snapshot.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a cache. A non-positive ttl stores entries without expiry.
func New(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl < 0 {
		ttl = 0
	}
	return &RedisCache{client: client, ttl: ttl}
}

// Get returns the cached policy. ok is false on a miss. A corrupt entry is
// deleted and reported as a miss.
func (c *RedisCache) Get(ctx context.Context) (p policy.Policy, ok bool, err error) {
	data, err := c.client.Get(ctx, Key).Bytes()
	if errors.Is(err, redis.Nil) {
		return policy.Policy{}, false, nil
	}
	if err != nil {
		return policy.Policy{}, false, fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(data, &p); err != nil {
		c.client.Del(ctx, Key)
		return policy.Policy{}, false, nil
	}
	return p.Normalized(), true, nil
}

// Generation returns the invalidation counter; 0 before the first update.
func (c *RedisCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, GenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get generation failed: %w", err)
	}
	return gen, nil
}

// Set stores p under Key if no Invalidate ran since generation was read.
// Losing that race is not an error: the next read fills the cache again.
func (c *RedisCache) Set(ctx context.Context, p policy.Policy, generation int64) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal policy: %w", err)
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, GenerationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, Key, data, c.ttl)
			return nil
		})
		return err
	}, GenerationKey)
	if errors.Is(err, errStaleGeneration) || errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Invalidate removes the cached snapshot and bumps the generation.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, GenerationKey)
		pipe.Del(ctx, Key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidate failed: %w", err)
	}
	return nil
}
