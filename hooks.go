package chunkcache

// Hooks are lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking; the cache calls them on
// hot paths. Wrap with hooks/async to decouple slow sinks.
type Hooks interface {
	// An entry was deleted by the cache on read.
	// reason ∈ {"corrupt", "value_decode", "chunk_under_parent_key"}
	SelfHeal(storageKey, reason string)

	// A direct set was refused and the write fell back to splitting.
	// tooLarge reports whether the store identified the size ceiling as
	// the cause (vs a generic rejection).
	SplitFallback(storageKey string, payloadLen, chunks int, tooLarge bool)

	// A chunk write failed mid-split; the split was abandoned, leaving
	// failedIndex orphaned chunks behind for store eviction to reclaim.
	SplitAborted(storageKey string, failedIndex, planned int)

	// Every chunk was written but the store refused the marker; the
	// chunks are orphaned.
	MarkerRejected(storageKey string, chunks int)

	// A marker's children could not all be fetched; the item was served
	// as a miss.
	MissingChildren(storageKey string, want, got int)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) SelfHeal(string, string)              {}
func (NopHooks) SplitFallback(string, int, int, bool) {}
func (NopHooks) SplitAborted(string, int, int)        {}
func (NopHooks) MarkerRejected(string, int)           {}
func (NopHooks) MissingChildren(string, int, int)     {}
