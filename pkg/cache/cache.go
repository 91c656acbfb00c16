// Package cache provides the caching layer for GitHub API responses.
//
// Fetching a full statistics set costs dozens of API calls; caching the
// raw responses lets repeated runs (switching themes, tweaking exclusions)
// finish without touching the network or the rate limit budget.
//
// Two backends are provided: [FileCache] for normal CLI usage and
// [RedisCache] for environments that already run Redis. [NullCache]
// disables caching entirely.
package cache

import (
	"context"
	"time"
)

// Cache stores raw API response bytes keyed by strings from a [Keyer].
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was found and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A TTL of 0 means the entry
	// never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every entry owned by this cache.
	Clear(ctx context.Context) error

	// Close releases any resources held by the cache.
	Close() error
}
