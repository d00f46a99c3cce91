package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

var Rdb *redis.Client

func InitRedis(redisAddress string, redisUsername string, redisPassword string) {
	Rdb = redis.NewClient(&redis.Options{
		Addr:     redisAddress,
		Username: redisUsername,
		Password: redisPassword,
		DB:       0,
	})
}

// Ping reports whether the server answers within ctx.
func Ping(ctx context.Context) error {
	if Rdb == nil {
		return fmt.Errorf("redis client not initialized")
	}
	return Rdb.Ping(ctx).Err()
}
