package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// InitRedis connects to Redis using either a redis:// URL or a plain
// host:port address. A nil client is returned on failure so callers
// can degrade to uncached operation.
func InitRedis(redisURL string) *redis.Client {
	if redisURL == "" {
		slog.Warn("Redis URL not configured, page caching disabled")
		return nil
	}

	var client *redis.Client
	if opts, err := redis.ParseURL(redisURL); err == nil {
		client = redis.NewClient(opts)
	} else {
		client = redis.NewClient(&redis.Options{Addr: redisURL})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("Redis unavailable, page caching disabled", "error", err)
		return nil
	}

	slog.Info("Connected to Redis", "url", redisURL)
	return client
}
