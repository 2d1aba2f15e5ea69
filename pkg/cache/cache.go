// Package cache provides small byte caches used to memoize repository lookups.
//
// The only current consumer is the Maven client, which remembers positive
// existence probes so that repeated "dep add" calls do not hit the network
// for artifacts that were already confirmed. Negative answers are never
// cached: an artifact that is missing today may be published tomorrow.
//
// Two implementations exist:
//   - [FileCache]: JSON entries with an expiry under a directory, for the CLI
//   - [NullCache]: stores nothing; used with --refresh and in tests
//
// Keys are produced by a [Keyer] so that the same coordinate probed against
// two different repositories never shares an entry.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
