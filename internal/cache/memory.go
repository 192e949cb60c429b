package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is the single-instance fallback when Redis is disabled.
// Values are kept JSON-encoded so callers get the same copy semantics as
// with Redis.
type MemoryCache struct {
	items  *gocache.Cache
	logger *slog.Logger
}

func NewMemoryCache(defaultTTL, cleanupInterval time.Duration, logger *slog.Logger) *MemoryCache {
	return &MemoryCache{
		items:  gocache.New(defaultTTL, cleanupInterval),
		logger: logger.With("component", "memory_cache"),
	}
}

func (c *MemoryCache) SetJSON(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	c.items.Set(key, data, ttl)
	c.logger.Debug("cache set", "key", key, "size_bytes", len(data), "ttl", ttl)
	return nil
}

func (c *MemoryCache) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	v, ok := c.items.Get(key)
	if !ok {
		c.logger.Debug("cache miss", "key", key)
		return false, nil
	}
	if err := json.Unmarshal(v.([]byte), dest); err != nil {
		return false, fmt.Errorf("json unmarshal: %w", err)
	}
	c.logger.Debug("cache hit", "key", key)
	return true, nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.items.Delete(key)
	return nil
}

// DeletePattern removes keys matching a glob pattern.
func (c *MemoryCache) DeletePattern(_ context.Context, pattern string) error {
	for key := range c.items.Items() {
		matched, err := path.Match(pattern, key)
		if err != nil {
			return fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if matched {
			c.items.Delete(key)
		}
	}
	return nil
}

func (c *MemoryCache) ItemCount() int {
	return c.items.ItemCount()
}

func (c *MemoryCache) Close() error {
	c.items.Flush()
	return nil
}
