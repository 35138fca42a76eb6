package chunkcache

import (
	"bytes"
	"context"
	"fmt"
	"time"

	c "github.com/unkn0wn-root/chunkcache/codec"
	"github.com/unkn0wn-root/chunkcache/internal/wire"
	st "github.com/unkn0wn-root/chunkcache/store"
)

const (
	defaultTTL = 10 * time.Minute
	// defaultMaxChunk keeps chunk payloads comfortably below a 1 MiB store
	// ceiling, leaving room for wire framing and store-side entry metadata.
	defaultMaxChunk = 1<<20 - 512
)

type cache[V any] struct {
	ns       string
	store    st.Store
	codec    c.Codec[V]
	log      Logger
	hooks    Hooks
	enabled  bool
	ttl      time.Duration
	maxChunk int
	token    TokenFunc
	valid    ValidityFunc
}

func newCache[V any](opts Options[V]) (*cache[V], error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("chunkcache: store is required")
	}
	if opts.Codec == nil {
		return nil, fmt.Errorf("chunkcache: codec is required")
	}
	if opts.Namespace == "" {
		return nil, fmt.Errorf("chunkcache: namespace is required")
	}
	if opts.MaxChunkSize < 0 {
		return nil, fmt.Errorf("chunkcache: negative MaxChunkSize")
	}

	cc := &cache[V]{
		ns:      opts.Namespace,
		store:   opts.Store,
		codec:   opts.Codec,
		enabled: !opts.Disabled,
	}

	// defaults
	cc.log = coalesce[Logger](opts.Logger, NopLogger{})
	cc.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	cc.ttl = coalesce[time.Duration](opts.DefaultTTL, defaultTTL)
	cc.maxChunk = coalesce[int](opts.MaxChunkSize, defaultMaxChunk)

	if opts.TokenFunc != nil {
		cc.token = opts.TokenFunc
	} else {
		cc.token = defaultToken
	}
	if opts.Validity != nil {
		cc.valid = opts.Validity
	} else {
		cc.valid = defaultValidity
	}

	return cc, nil
}

func (cc *cache[V]) Enabled() bool { return cc.enabled }

func (cc *cache[V]) Close(ctx context.Context) error {
	if cc.store != nil {
		return cc.store.Close(ctx)
	}
	return nil
}

func (cc *cache[V]) Set(ctx context.Context, key string, value V, ttl time.Duration, tags []string) (bool, error) {
	if !cc.enabled {
		return false, nil
	}
	if err := validateTags(tags); err != nil {
		return false, err
	}
	if ttl == 0 {
		ttl = cc.ttl
	}
	payload, err := cc.codec.Encode(value)
	if err != nil {
		return false, err
	}

	now := time.Now()
	created := now.UnixNano()
	var expire int64
	if ttl > 0 {
		expire = now.Add(ttl).UnixNano()
	}

	k := cc.itemKey(key)
	out, err := cc.store.Set(ctx, k, wire.EncodeDirect(created, expire, tags, payload), ttl)
	if err != nil {
		return false, err
	}
	if out == st.Stored {
		return true, nil // common case - value fits in one entry
	}
	return cc.setSplit(ctx, k, payload, created, expire, tags, ttl, out)
}

// setSplit is the oversized fallback: write every chunk under a fresh
// seed, then the marker last, so no marker ever references a chunk that
// was not written.
func (cc *cache[V]) setSplit(ctx context.Context, k string, payload []byte, created, expire int64, tags []string, ttl time.Duration, direct st.SetOutcome) (bool, error) {
	seed := cc.token()
	chunks := splitChunks(k, seed, payload, cc.maxChunk)
	cc.hooks.SplitFallback(k, len(payload), len(chunks), direct == st.TooLarge)
	cc.log.Debug("direct set refused; splitting", Fields{
		"key": k, "outcome": direct.String(), "bytes": len(payload), "chunks": len(chunks)})

	for i, ch := range chunks {
		// chunks inherit the parent's creation time so age-based policies
		// see one consistent item; they carry no expire/tag state of
		// their own. The store-level TTL matches the parent's so the
		// whole group ages out together.
		out, err := cc.store.Set(ctx, ch.key, wire.EncodeChunk(created, ch.payload), ttl)
		if err != nil || out != st.Stored {
			// Abandon the whole split on first failure - no retry and no
			// cleanup. A partial retry could interleave with a concurrent
			// split; already-written chunks are unreachable without a
			// marker and age out in the store.
			cc.hooks.SplitAborted(k, i, len(chunks))
			cc.log.Warn("chunk write failed; split abandoned", Fields{
				"key": k, "index": i, "planned": len(chunks), "err": err})
			return false, err
		}
	}

	childKeys := make([]string, len(chunks))
	for i, ch := range chunks {
		childKeys[i] = ch.key
	}
	out, err := cc.store.Set(ctx, k, wire.EncodeRef(created, expire, tags, childKeys), ttl)
	if err != nil {
		return false, err
	}
	if out != st.Stored {
		cc.hooks.MarkerRejected(k, len(chunks))
		cc.log.Warn("marker write refused; chunks orphaned", Fields{
			"key": k, "outcome": out.String(), "chunks": len(chunks)})
		return false, nil
	}
	return true, nil
}

func (cc *cache[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V
	if !cc.enabled {
		return zero, false, nil
	}
	k := cc.itemKey(key)
	raw, ok, err := cc.store.Get(ctx, k)
	if err != nil || !ok {
		return zero, false, err
	}
	return cc.materialize(ctx, key, k, raw, false)
}

func (cc *cache[V]) GetMulti(ctx context.Context, keys []string, allowInvalid bool) (map[string]V, []string, error) {
	out := make(map[string]V, len(keys))
	if !cc.enabled {
		missing := make([]string, 0, len(keys))
		missing = append(missing, keys...)
		return out, missing, nil
	}
	if len(keys) == 0 {
		return out, nil, nil
	}

	storage := make([]string, len(keys))
	for i, k := range keys {
		storage[i] = cc.itemKey(k)
	}
	raw, err := cc.store.GetMulti(ctx, storage)
	if err != nil {
		return nil, nil, err
	}

	var missing []string
	seen := make(map[string]struct{}, len(keys))
	for i, k := range keys {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}

		b, ok := raw[storage[i]]
		if !ok {
			missing = append(missing, k)
			continue
		}
		v, ok, err := cc.materialize(ctx, k, storage[i], b, allowInvalid)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			missing = append(missing, k)
			continue
		}
		out[k] = v
	}
	return out, missing, nil
}

// Del removes the parent entry only. Chunks of a split item are left
// behind unreferenced and reclaimed by store eviction.
func (cc *cache[V]) Del(ctx context.Context, key string) error {
	if !cc.enabled {
		return nil
	}
	return cc.store.Del(ctx, cc.itemKey(key))
}

// materialize turns raw stored bytes into the caller's value: decode the
// tagged entry, apply the validity policy, resolve markers, run the codec.
// Every anomaly is a miss, never an error; wire-level garbage is deleted
// (self-heal), validity rejections are only dropped.
func (cc *cache[V]) materialize(ctx context.Context, userKey, storageKey string, raw []byte, allowInvalid bool) (V, bool, error) {
	var zero V

	ent, err := wire.Decode(raw)
	if err != nil {
		_ = cc.store.Del(ctx, storageKey) // self-heal corrupt
		cc.hooks.SelfHeal(storageKey, "corrupt")
		return zero, false, nil
	}
	if ent.Kind == wire.KindChunk {
		// a chunk under a parent key is a foreign or misdirected write
		_ = cc.store.Del(ctx, storageKey)
		cc.hooks.SelfHeal(storageKey, "chunk_under_parent_key")
		return zero, false, nil
	}

	if !allowInvalid {
		m := Meta{
			Key:     userKey,
			Created: time.Unix(0, ent.Created),
			Expire:  expireTime(ent.Expire),
			Tags:    ent.Tags,
		}
		if !cc.valid(m) {
			// dropped, not deleted: the validity policy may be stateful
			// and deletion is not ours to decide
			return zero, false, nil
		}
	}

	payload := ent.Payload
	if ent.Kind == wire.KindRef {
		var ok bool
		payload, ok, err = cc.reassemble(ctx, storageKey, ent.ChildKeys)
		if err != nil || !ok {
			return zero, false, err
		}
	}

	v, err := cc.codec.Decode(payload)
	if err != nil {
		_ = cc.store.Del(ctx, storageKey) // self-heal
		cc.hooks.SelfHeal(storageKey, "value_decode")
		return zero, false, nil
	}
	return v, true, nil
}

// reassemble fetches a marker's children and concatenates their payloads
// in the marker's listed order - never the fetch-return order. Any missing
// or malformed child turns the whole item into a miss.
func (cc *cache[V]) reassemble(ctx context.Context, storageKey string, childKeys []string) ([]byte, bool, error) {
	if len(childKeys) == 0 {
		// split of an empty payload
		return nil, true, nil
	}
	raw, err := cc.store.GetMulti(ctx, childKeys)
	if err != nil {
		return nil, false, err
	}
	if len(raw) < len(childKeys) {
		// evicted or never-written chunks: an ordinary miss
		cc.hooks.MissingChildren(storageKey, len(childKeys), len(raw))
		cc.log.Debug("marker with missing chunks; miss", Fields{
			"key": storageKey, "want": len(childKeys), "got": len(raw)})
		return nil, false, nil
	}

	total := 0
	for _, b := range raw {
		total += len(b)
	}
	var buf bytes.Buffer
	buf.Grow(total)
	for _, ck := range childKeys {
		ch, err := wire.Decode(raw[ck])
		if err != nil || ch.Kind != wire.KindChunk {
			_ = cc.store.Del(ctx, ck)
			cc.hooks.SelfHeal(ck, "corrupt")
			return nil, false, nil
		}
		buf.Write(ch.Payload)
	}
	return buf.Bytes(), true, nil
}

func (cc *cache[V]) itemKey(userKey string) string {
	// isolate by namespace
	return "item:" + cc.ns + ":" + userKey
}

// wire framing length-prefixes tags with u16s; anything larger must be
// refused here, before encoding, so caller data can never trip the
// encoder's invariant panics.
const (
	maxTags   = 0xFFFF
	maxTagLen = 0xFFFF
)

func validateTags(tags []string) error {
	if len(tags) > maxTags {
		return fmt.Errorf("chunkcache: too many tags (%d > %d)", len(tags), maxTags)
	}
	for _, t := range tags {
		if len(t) > maxTagLen {
			return fmt.Errorf("chunkcache: tag exceeds %d bytes", maxTagLen)
		}
	}
	return nil
}

func defaultValidity(m Meta) bool {
	return m.Expire.IsZero() || time.Now().Before(m.Expire)
}

func expireTime(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}
