// Package infrastructure provides concrete implementations of the interfaces
// defined in core/interfaces.
//
// The infrastructure package is organized by technical concern:
//
// - http/standard: Transport session with browser headers, content decoding and TLS fallback
// - cache/memory: In-memory byte store backed by go-cache
// - cache/redis: Redis byte store
// - cache/sqlite: SQLite byte store
// - browser/colly: Browser driver for manual search built on colly
// - logger/logrus: Structured logger backed by logrus
//
// # Transport
//
//	session, err := standard.NewSession(standard.Options{
//	    Timeout:         30 * time.Second,
//	    AllowPermissive: true,
//	})
//	resp, err := session.Fetch(ctx, "https://pastebin.com/archive", nil)
//
// # Cache Implementations
//
//	cache := memory.NewMemoryCache()
//	err := cache.Set(ctx, "key", []byte("value"), time.Hour)
//	value, err := cache.Get(ctx, "key")
//
// # Logger
//
//	logger := logrus.New(logrus.Options{Level: "debug"})
//	logger.Info("Strategy succeeded", map[string]interface{}{
//	    "strategy": "archive",
//	})
package infrastructure
