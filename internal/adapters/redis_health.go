package adapters

import (
	"context"

	"github.com/redis/go-redis/v9"

	apphttp "checkout_phone_backend/internal/http"
)

// RedisHealth implements http.HealthChecker for a Redis client.
type RedisHealth struct {
	client *redis.Client
}

// NewRedisHealth creates a new adapter.
func NewRedisHealth(client *redis.Client) *RedisHealth {
	return &RedisHealth{client: client}
}

// Ping reports whether Redis answers.
func (h *RedisHealth) Ping(ctx context.Context) error {
	return h.client.Ping(ctx).Err()
}

// Compile-time check.
var _ apphttp.HealthChecker = (*RedisHealth)(nil)
