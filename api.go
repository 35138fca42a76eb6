package chunkcache

import (
	"context"
	"time"

	c "github.com/unkn0wn-root/chunkcache/codec"
	st "github.com/unkn0wn-root/chunkcache/store"
)

// Meta is the caller-visible metadata of a parent entry, handed to the
// ValidityFunc on reads. Tags are passed through untouched; whatever
// checksum or invalidation scheme interprets them lives outside this
// package.
type Meta struct {
	Key     string // caller key, without namespace prefix
	Created time.Time
	Expire  time.Time // zero = no expiry
	Tags    []string
}

// ValidityFunc decides whether a fetched entry may be served. Returning
// false drops the entry from the result (a miss, not an error). The
// default policy accepts everything not past its expiry.
type ValidityFunc func(Meta) bool

// TokenFunc produces the per-split write seed. It must return a non-empty
// token with enough entropy that two splits never collide; secrecy is not
// required. Inject a deterministic one in tests.
type TokenFunc func() string

// Cache is the store-agnostic cache API. V is the caller's value type;
// serialization is handled by a pluggable Codec[V]. Values of any size are
// accepted: oversized ones are split across child entries transparently.
type Cache[V any] interface {
	Enabled() bool
	Close(context.Context) error

	// Set writes value under key. ok=false means the store refused the
	// write (directly or mid-split); err reports transport failures.
	Set(ctx context.Context, key string, value V, ttl time.Duration, tags []string) (ok bool, err error)

	// Get is GetMulti for one key with the default validity policy.
	Get(ctx context.Context, key string) (v V, ok bool, err error)

	// GetMulti fetches many keys. Keys absent from values are misses
	// (reported in missing); a miss is never an error. allowInvalid
	// bypasses the validity policy, serving expired/invalidated entries.
	GetMulti(ctx context.Context, keys []string, allowInvalid bool) (values map[string]V, missing []string, err error)

	// Del removes the parent entry. Chunks of a split item are not
	// cascaded; they become unreachable and age out via store eviction.
	Del(ctx context.Context, key string) error
}

// Options tune the behavior of the cache.
// Only Namespace, Store and Codec are required; others have sensible defaults.
type Options[V any] struct {
	// Required
	Namespace string // logical namespace to avoid collisions. e.g. "user", "profile", "order"
	Store     st.Store
	Codec     c.Codec[V]

	Logger Logger // if nil, NopLogger is used
	Hooks  Hooks  // if nil, NopHooks is used

	DefaultTTL time.Duration // 0 => 10m

	// MaxChunkSize bounds each chunk's payload. Set it comfortably below
	// the store's hard per-entry ceiling so framing and store metadata
	// fit; 0 => 1 MiB minus 512 bytes of headroom.
	MaxChunkSize int

	TokenFunc TokenFunc    // nil => random UUID-derived seed
	Validity  ValidityFunc // nil => expiry check only
	Disabled  bool         // default false (enabled)
}

func New[V any](opts Options[V]) (Cache[V], error) {
	return newCache[V](opts)
}
