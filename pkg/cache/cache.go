// Package cache provides the preview cache used by the generative synthesis
// path: ghost previews are keyed by prompt and aspect ratio so a prompt
// that re-enters the gate after an evaluation pass reuses its earlier
// draft instead of burning another synthesis call.
//
// Backends: file (CLI runs), redis (shared deployments), null (disabled).
package cache

import (
	"context"
	"time"
)

// TTLPreview bounds how long a synthesized ghost preview stays reusable.
// Previews are drafts: a stale one is regenerated on the next pass anyway.
const TTLPreview = 7 * 24 * time.Hour

// Cache is a byte store with per-entry TTL.
type Cache interface {
	// Get retrieves a value. The second result is false on a miss; misses
	// are not errors.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl stores without expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// NullCache is a no-op cache that never stores anything.
// Useful for testing or when caching should be disabled.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache { return &NullCache{} }

// Get always returns a cache miss.
func (c *NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set does nothing.
func (c *NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Delete does nothing.
func (c *NullCache) Delete(context.Context, string) error { return nil }

// Close does nothing.
func (c *NullCache) Close() error { return nil }

// Ensure NullCache implements Cache.
var _ Cache = (*NullCache)(nil)
