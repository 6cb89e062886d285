// Package kvstore provides a durable key-value store with TTL semantics.
// Expiry and corruption handling live inside the store: expired or
// undecodable entries read as absent and are purged as a side effect of the
// read, so call sites never see partial or stale data.
package kvstore

import (
	"context"
	"time"
)

// Store is a flat key-value store with per-entry time-to-live.
type Store interface {
	// Get returns the value for key. The boolean reports presence; an
	// expired entry is treated as absent and evicted by the read.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put stores value under key, replacing any existing entry wholesale.
	// A zero ttl stores the entry without expiry.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the entry for key. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string) error
}
