// Package interfaces defines the ports the core services depend on.
// These interfaces allow for dependency injection and make the code testable.
package interfaces

import (
	"context"
	"time"
)

// Cache defines the interface for cache operations.
// Implementations can be Redis, in-memory, or any other caching solution.
// Values are opaque bytes; callers serialize their own payloads.
type Cache interface {
	// Get retrieves a value from the cache by key.
	// A missing or expired key returns an error; callers treat any
	// error as a cache miss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with the given key and TTL.
	// If ttl is 0, the value is stored indefinitely. A Set overwrites
	// any prior value for the key atomically.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache by key.
	// Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
