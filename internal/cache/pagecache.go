package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const pagePrefix = "page:"

// PageCache stores rendered page bodies in Redis with a short TTL.
// All operations are best-effort: with a nil client or a Redis error
// the caller proceeds as if the page were not cached.
type PageCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewPageCache(rdb *redis.Client, ttl time.Duration) *PageCache {
	return &PageCache{rdb: rdb, ttl: ttl}
}

// IndexKey returns the cache key for one page of the index feed. Keys
// use the resolved page number, not the raw query parameter, so every
// spelling that clamps to the same page shares one entry.
func IndexKey(page int) string {
	return fmt.Sprintf("%sindex:%d", pagePrefix, page)
}

// Get returns the cached body for key, or nil on a miss.
func (c *PageCache) Get(ctx context.Context, key string) []byte {
	if c == nil || c.rdb == nil {
		return nil
	}
	body, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("Page cache read failed", "key", key, "error", err)
		}
		return nil
	}
	return body
}

// Set stores body under key for the configured TTL.
func (c *PageCache) Set(ctx context.Context, key string, body []byte) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Set(ctx, key, body, c.ttl).Err(); err != nil {
		slog.Warn("Page cache write failed", "key", key, "error", err)
	}
}

// Clear removes every cached page. Used after content changes that
// must be visible immediately.
func (c *PageCache) Clear(ctx context.Context) error {
	if c == nil || c.rdb == nil {
		return nil
	}

	var cursor uint64
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, pagePrefix+"*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
