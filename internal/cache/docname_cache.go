package cache

import (
	"context"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// DocNameCache caches document display names keyed by storage path. It is
// consulted best-effort while building citations; misses and errors fall
// through to the metadata store.
type DocNameCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewDocNameCache(client *redisv9.Client, ttl time.Duration) *DocNameCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &DocNameCache{client: client, ttl: ttl}
}

func (c *DocNameCache) Get(ctx context.Context, storagePath string) (string, bool, error) {
	raw, err := c.client.Get(ctx, c.key(storagePath)).Result()
	if err == redisv9.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get doc name failed: %w", err)
	}
	return raw, true, nil
}

func (c *DocNameCache) Set(ctx context.Context, storagePath, name string) error {
	if err := c.client.Set(ctx, c.key(storagePath), name, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set doc name failed: %w", err)
	}
	return nil
}

func (c *DocNameCache) key(storagePath string) string {
	return "kb:docname:" + storagePath
}
