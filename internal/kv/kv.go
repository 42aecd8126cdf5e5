// Package kv provides the durable key-value capability backing kiroku's
// cross-request state: the sender location cache, the destination name
// cache, and staged previews. Expiry is per key and enforced by the store,
// not by callers. See docs/ARCHITECTURE.md § Key-Value Store.
package kv

import (
	"context"
	"time"
)

// Store is a get/put key-value store with per-key TTL. Get reports a missing
// or expired key as ok=false, not as an error; errors are reserved for the
// backing medium failing. No guarantees beyond single-key atomicity.
type Store interface {
	// Get returns the value stored under key, if present and not expired.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Put stores value under key. A ttl of zero means no expiry.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
