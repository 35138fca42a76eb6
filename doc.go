// Package chunkcache implements a store-agnostic cache adapter for byte
// stores with a hard per-entry size ceiling (e.g. memcached-style 1 MiB).
// Values whose serialized form exceeds the ceiling are transparently split
// into bounded chunks under derived child keys; the caller-visible key
// holds a lightweight marker listing the children, and reads reassemble
// the original value. Callers never see the ceiling.
//
// Components:
//   - Store: byte store with TTL and per-key atomic set/get/multi-get
//     (e.g. Redis, BigCache, Ristretto). No cross-key atomicity assumed.
//   - Codec[V]: (de)serializes V <-> []byte.
//   - Splitter: partitions an oversized payload into chunks of at most
//     MaxChunkSize bytes and derives child keys.
//
// Keys:
//
//	item:<ns>:<key>                  - parent entries (direct value or marker)
//	item:<ns>:<key>:<seed>:<index>   - chunk entries
//
// The seed is a fresh random token per split operation, so two splits of
// the same logical key (concurrent or sequential) never share child keys:
// a reader holding an older marker can never observe a mix of old and new
// chunks.
//
// Write path: try a direct single-entry set; if the store does not accept
// it, split, write every chunk, then write the marker last. A failed chunk
// write abandons the whole split (no marker is written). Read path: a
// marker triggers a multi-get of the children; any missing child makes the
// whole item a plain cache miss, never an error. Orphaned chunks left by
// overwrites, deletes, or abandoned splits are reclaimed by the store's
// own eviction.
package chunkcache
