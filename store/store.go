// Package store defines the storage abstraction used by chunkcache.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly
// the same []byte that was previously passed to Set for a key (no
// prepended/appended metadata, no re-encoding, no mutation). If a store
// performs internal transforms (e.g., compression), they MUST be fully
// reversed so that the bytes returned by Get are identical to the bytes
// provided to Set.
//
// Important: the keyspace "item:<ns>:" is owned by chunkcache. External code
// MUST NOT write values under this prefix. Foreign writes may be treated as
// corruption by strict wire-format validation and deleted.
package store

import (
	"context"
	"time"
)

// SetOutcome reports what the store did with a Set. A plain boolean would
// fold "entry too large" into generic rejection; keeping them apart makes
// the oversized case visible to hooks, logs and tests, even though the
// cache falls back to splitting on any non-Stored outcome.
type SetOutcome uint8

const (
	// Stored means the write was accepted.
	Stored SetOutcome = iota
	// TooLarge means the entry exceeded the store's per-entry ceiling.
	TooLarge
	// Rejected means the store refused the write for another reason
	// (memory pressure, admission policy).
	Rejected
)

func (o SetOutcome) String() string {
	switch o {
	case Stored:
		return "stored"
	case TooLarge:
		return "too_large"
	case Rejected:
		return "rejected"
	}
	return "unknown"
}

// Store is a minimal byte store with TTLs. Each operation is atomic per
// key; nothing is atomic across keys. Must be safe for concurrent use.
type Store interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// GetMulti returns the entries found; requested keys with no entry are
	// simply absent from the result. Partial misses are not errors.
	GetMulti(ctx context.Context, keys []string) (map[string][]byte, error)

	// Set stores value with the given TTL (ttl <= 0 means no expiry where
	// the store supports that). The outcome is meaningful only when err
	// is nil.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) (SetOutcome, error)

	// Del removes a key (best-effort).
	Del(ctx context.Context, key string) error

	// Close releases resources.
	Close(ctx context.Context) error
}
