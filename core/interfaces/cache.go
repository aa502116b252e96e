// Package interfaces defines the core interfaces used throughout the search engine.
// These interfaces allow for dependency injection and make the code testable.
package interfaces

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent or expired
var ErrCacheMiss = errors.New("key not found")

// Cache defines the byte store behind the result cache.
// Implementations can be in-memory, Redis, SQLite, or any other store.
//
// Example usage:
//
//	store := someCache // implements Cache interface
//
//	// Store a snapshot
//	err := store.Set(ctx, "pastesearch:ab12...", entryJSON, time.Hour)
//
//	// Retrieve it
//	data, err := store.Get(ctx, "pastesearch:ab12...")
//	if err != nil {
//		// treat as a miss
//	}
type Cache interface {
	// Get retrieves a value by key.
	// Returns ErrCacheMiss if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	// If ttl is 0, the value is stored until deleted.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	// Returns nil if the key doesn't exist.
	Delete(ctx context.Context, key string) error
}
