package ristretto

import (
	"context"
	"errors"
	"time"

	rc "github.com/dgraph-io/ristretto"

	st "github.com/unkn0wn-root/chunkcache/store"
)

// Store adapts Ristretto. Cost is the value length, so MaxCost acts as the
// memory budget; MaxEntryBytes is the per-entry ceiling reported as
// TooLarge. Admission refusal (SetWithTTL returning false) is Rejected.
type Store struct {
	c        *rc.Cache
	maxEntry int
}

var _ st.Store = (*Store)(nil)

type Config struct {
	NumCounters int64
	MaxCost     int64
	BufferItems int64
	Metrics     bool
	// MaxEntryBytes, when > 0, rejects larger values with TooLarge.
	MaxEntryBytes int
}

func New(cfg Config) (*Store, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, errors.New("ristretto: invalid config")
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	return &Store{c: c, maxEntry: cfg.MaxEntryBytes}, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, _ := v.([]byte)
	if b == nil {
		// self-heal: drop unexpected entry shape
		s.c.Del(key)
		return nil, false, nil
	}
	return b, true, nil
}

func (s *Store) GetMulti(ctx context.Context, keys []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	for _, k := range keys {
		if b, ok, _ := s.Get(ctx, k); ok {
			out[k] = b
		}
	}
	return out, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte, ttl time.Duration) (st.SetOutcome, error) {
	if s.maxEntry > 0 && len(value) > s.maxEntry {
		return st.TooLarge, nil
	}
	if s.c.SetWithTTL(key, value, int64(len(value)), ttl) {
		return st.Stored, nil
	}
	return st.Rejected, nil
}

func (s *Store) Del(_ context.Context, key string) error {
	s.c.Del(key)
	return nil
}

func (s *Store) Close(_ context.Context) error {
	s.c.Wait()
	s.c.Close()
	return nil
}

// Metrics exposes Ristretto's own metrics (not part of store.Store).
func (s *Store) Metrics() *rc.Metrics { return s.c.Metrics }
