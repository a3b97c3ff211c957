package adapter

import (
	"context"
	"time"

	"sneakerspot/internal/pkg/redisx"
)

// IdempotencyRedisAdapter claims checkout idempotency keys with SET NX. The
// TTL bounds how long a crashed request can block its retry.
type IdempotencyRedisAdapter struct {
	redis *redisx.Client
	ttl   time.Duration
}

func NewIdempotencyRedisAdapter(redis *redisx.Client, ttl time.Duration) *IdempotencyRedisAdapter {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &IdempotencyRedisAdapter{redis: redis, ttl: ttl}
}

func key(k string) string {
	return "checkout:idempotency:" + k
}

func (a *IdempotencyRedisAdapter) Begin(ctx context.Context, k string) (bool, error) {
	return a.redis.SetNX(ctx, key(k), "1", a.ttl)
}

func (a *IdempotencyRedisAdapter) End(ctx context.Context, k string) error {
	return a.redis.Del(ctx, key(k))
}
