// ABOUTME: Result cache keyed by search term and canonical filters
// ABOUTME: Stores JSON snapshots in any byte store and expires them lazily on lookup

package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/byfranke/PastebinSearch/core/domain"
	"github.com/byfranke/PastebinSearch/core/interfaces"
)

const keyPrefix = "search:results:"

// ResultCache maps (term, filters) to a snapshot of search results
type ResultCache struct {
	store  interfaces.Cache
	ttl    time.Duration
	now    func() time.Time
	logger interfaces.Logger

	mu   sync.Mutex
	keys map[string]struct{}
}

// Option configures a ResultCache
type Option func(*ResultCache)

// WithClock replaces time.Now for validity checks
func WithClock(now func() time.Time) Option {
	return func(c *ResultCache) { c.now = now }
}

// WithLogger sets the logger
func WithLogger(logger interfaces.Logger) Option {
	return func(c *ResultCache) { c.logger = logger }
}

// NewResultCache creates a cache over store. Entries older than ttl are treated as misses.
func NewResultCache(store interfaces.Cache, ttl time.Duration, opts ...Option) *ResultCache {
	c := &ResultCache{
		store: store,
		ttl:   ttl,
		now:   time.Now,
		keys:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = interfaces.LoggerOrNop(c.logger)
	return c
}

// Key derives the store key from term and the canonical form of filters
func Key(term string, filters domain.Filters) string {
	canonical, err := json.Marshal(filters.Canonical())
	if err != nil {
		canonical = []byte("{}")
	}

	h := sha256.New()
	h.Write([]byte(term))
	h.Write([]byte{0})
	h.Write(canonical)
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}

// Get returns a copy of the cached results. ok is false on a miss, an expired entry or a store error.
func (c *ResultCache) Get(ctx context.Context, term string, filters domain.Filters) ([]domain.SearchResult, bool) {
	key := Key(term, filters)

	data, err := c.store.Get(ctx, key)
	if err != nil {
		return nil, false
	}

	var entry domain.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		c.logger.Warn("Dropping undecodable cache entry", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		c.evict(ctx, key)
		return nil, false
	}

	if !entry.ValidAt(c.now(), c.ttl) {
		c.evict(ctx, key)
		return nil, false
	}

	return entry.Results, true
}

// Put stores a snapshot of results. Sentinel results are never cached.
func (c *ResultCache) Put(ctx context.Context, term string, filters domain.Filters, results []domain.SearchResult) error {
	for _, r := range results {
		if r.IsSentinel() {
			return nil
		}
	}

	key := Key(term, filters)
	data, err := json.Marshal(domain.CacheEntry{
		Key:      key,
		Results:  results,
		CachedAt: c.now(),
	})
	if err != nil {
		return err
	}

	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		return err
	}

	c.mu.Lock()
	c.keys[key] = struct{}{}
	c.mu.Unlock()
	return nil
}

// Clear deletes every entry written through this cache
func (c *ResultCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	keys := make([]string, 0, len(c.keys))
	for k := range c.keys {
		keys = append(keys, k)
	}
	c.keys = make(map[string]struct{})
	c.mu.Unlock()

	for _, k := range keys {
		if err := c.store.Delete(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

// TTL returns the validity window
func (c *ResultCache) TTL() time.Duration {
	return c.ttl
}

func (c *ResultCache) evict(ctx context.Context, key string) {
	_ = c.store.Delete(ctx, key)

	c.mu.Lock()
	delete(c.keys, key)
	c.mu.Unlock()
}
