// Package cache stores rendered documents and reconfiguration payloads.
//
// Rendering a large mesh is cheap but not free, and the server renders the
// same description for every session that opens it. A [Cache] keeps the
// result keyed by a content hash of the input (see [Keyer]).
//
// Backends:
//   - [NullCache]: stores nothing (caching disabled)
//   - [FileCache]: snappy-compressed files under a directory (CLI)
//   - [RedisCache]: a shared Redis instance (multi-instance server)
//   - [MongoCache]: a MongoDB collection with a TTL index
//
// [Open] selects a backend from [settings.CacheSettings].
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value stored under key. A miss is reported with
	// hit == false and a nil error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
