// ABOUTME: In-memory cache implementation backed by patrickmn/go-cache
// ABOUTME: Expired items are hidden on read and never swept by a background janitor

package memory

import (
	"context"
	"time"

	"github.com/byfranke/PastebinSearch/core/interfaces"
	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache implements the Cache interface using in-memory storage
type MemoryCache struct {
	items *gocache.Cache
}

// NewMemoryCache creates a new in-memory cache instance
func NewMemoryCache() *MemoryCache {
	// cleanup interval 0 disables the janitor goroutine
	return &MemoryCache{items: gocache.New(gocache.NoExpiration, 0)}
}

// Get retrieves a copy of a value from the cache
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	value, ok := c.items.Get(key)
	if !ok {
		return nil, interfaces.ErrCacheMiss
	}

	stored := value.([]byte)
	result := make([]byte, len(stored))
	copy(result, stored)
	return result, nil
}

// Set stores a copy of value with the given TTL, 0 meaning no expiry
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	c.items.Set(key, valueCopy, ttl)
	return nil
}

// Delete removes a key from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.items.Delete(key)
	return nil
}

// Len returns the number of stored items, expired ones included
func (c *MemoryCache) Len() int {
	return c.items.ItemCount()
}

// Close is a no-op so the cache can be released like the persistent backends
func (c *MemoryCache) Close() error {
	return nil
}
