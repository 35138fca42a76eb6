package chunkcache

import (
	"strings"

	"github.com/google/uuid"

	"github.com/unkn0wn-root/chunkcache/internal/util"
)

// chunk is one bounded slice of a split payload plus its derived key.
type chunk struct {
	key     string
	payload []byte
}

// splitChunks partitions payload into ceil(len/maxChunk) contiguous slices
// of at most maxChunk bytes (the last one may be shorter) and derives one
// child key per slice under the given seed. An empty payload yields no
// chunks. Pure; the returned order is the chunk index order and callers
// must preserve it.
func splitChunks(parentKey, seed string, payload []byte, maxChunk int) []chunk {
	if len(payload) == 0 {
		return nil
	}
	n := (len(payload) + maxChunk - 1) / maxChunk
	out := make([]chunk, 0, n)
	for i := 0; i < n; i++ {
		lo := i * maxChunk
		hi := lo + maxChunk
		if hi > len(payload) {
			hi = len(payload)
		}
		out = append(out, chunk{
			key:     util.ChildKey(parentKey, seed, i),
			payload: payload[lo:hi],
		})
	}
	return out
}

// defaultToken returns a random write seed: a v4 UUID with the dashes
// stripped so derived keys keep ":" as their only separator.
func defaultToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
