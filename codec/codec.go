// Package codec provides pluggable value (de)serialization for chunkcache.
//
// A Codec must be deterministic and total for every value the caller may
// store: Decode(Encode(v)) must reproduce v, and Decode must accept the
// concatenation of the exact bytes Encode produced (reassembly hands it
// the same byte sequence, re-joined from chunks).
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
