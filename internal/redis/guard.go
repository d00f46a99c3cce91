package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultGuardTTL outlives one day's runs without blocking next week's.
	DefaultGuardTTL = 36 * time.Hour
	guardPrefix     = "minbar:sent:"
)

// SendGuard claims notification keys with SETNX so two runs that overlap,
// on one host or several, never message the same person twice.
type SendGuard struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSendGuard(rdb *redis.Client, ttl time.Duration) *SendGuard {
	if ttl <= 0 {
		ttl = DefaultGuardTTL
	}
	return &SendGuard{rdb: rdb, ttl: ttl}
}

func (g *SendGuard) Acquire(ctx context.Context, key string) (bool, error) {
	return g.rdb.SetNX(ctx, guardPrefix+key, time.Now().UTC().Format(time.RFC3339), g.ttl).Result()
}

func (g *SendGuard) Release(ctx context.Context, key string) error {
	return g.rdb.Del(ctx, guardPrefix+key).Err()
}
