// Package dedupe keeps a short-lived cache of already-ingested article links
// so repeated feed polls do not reprocess the same items.
package dedupe

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"marketmind/internal/config"
	"marketmind/pkg/common"
	"marketmind/pkg/logger"
)

const seenTTL = 7 * 24 * time.Hour

// Cache marks article links as seen in Redis. A nil Cache or a Cache without
// a client treats every link as unseen, so ingestion still works when Redis
// is not configured.
type Cache struct {
	client *redis.Client
}

// NewCache connects to Redis at cfg.Addr. An empty address disables the
// cache rather than failing.
func NewCache(ctx context.Context, cfg config.RedisConfig) (*Cache, error) {
	if cfg.Addr == "" {
		return &Cache{}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	return &Cache{client: client}, nil
}

func seenKey(link string) string {
	return "seen:" + common.ArticleID(link)
}

// Seen reports whether the link was marked during the TTL window. Lookup
// failures are logged and treated as unseen.
func (c *Cache) Seen(ctx context.Context, link string) bool {
	if c == nil || c.client == nil {
		return false
	}
	n, err := c.client.Exists(ctx, seenKey(link)).Result()
	if err != nil {
		logger.Warn("[Dedupe] lookup failed", "link", link, "error", err)
		return false
	}
	return n > 0
}

// Mark records the link as ingested.
func (c *Cache) Mark(ctx context.Context, link string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Set(ctx, seenKey(link), 1, seenTTL).Err(); err != nil {
		logger.Warn("[Dedupe] mark failed", "link", link, "error", err)
	}
}

// Close releases the Redis connection.
func (c *Cache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
