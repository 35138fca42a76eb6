package bigcache

import (
	"context"
	"strings"
	"time"

	bc "github.com/allegro/bigcache/v3"

	st "github.com/unkn0wn-root/chunkcache/store"
)

// Store adapts BigCache. BigCache rejects entries bigger than its shard
// size, which is the natural "per-entry ceiling" this adapter exposes as
// TooLarge; MaxEntryBytes lets deployments pin a tighter, explicit ceiling.
type Store struct {
	c        *bc.BigCache
	maxEntry int
}

var _ st.Store = (*Store)(nil)

type Config struct {
	LifeWindow         time.Duration
	CleanWindow        time.Duration
	MaxEntriesInWindow int
	MaxEntrySize       int // BigCache's allocation hint, not a hard cap
	HardMaxCacheSizeMB int // ~ memory limit; 0 = unlimited
	// MaxEntryBytes, when > 0, is the hard per-entry ceiling reported as
	// TooLarge. Without it, only shard-size rejections map to TooLarge.
	MaxEntryBytes int
}

func New(cfg Config) (*Store, error) {
	conf := bc.DefaultConfig(cfg.LifeWindow)
	if cfg.CleanWindow > 0 {
		conf.CleanWindow = cfg.CleanWindow
	}
	if cfg.MaxEntriesInWindow > 0 {
		conf.MaxEntriesInWindow = cfg.MaxEntriesInWindow
	}
	if cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = cfg.MaxEntrySize
	}
	if cfg.HardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = cfg.HardMaxCacheSizeMB
	}
	c, err := bc.NewBigCache(conf)
	if err != nil {
		return nil, err
	}
	return &Store{c: c, maxEntry: cfg.MaxEntryBytes}, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	b, err := s.c.Get(key)
	if err == bc.ErrEntryNotFound {
		return nil, false, nil
	}
	return b, err == nil, err
}

func (s *Store) GetMulti(ctx context.Context, keys []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	for _, k := range keys {
		b, ok, err := s.Get(ctx, k)
		if err != nil {
			return nil, err
		}
		if ok {
			out[k] = b
		}
	}
	return out, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte, _ time.Duration) (st.SetOutcome, error) {
	// BigCache does not support per-entry TTL; uses global LifeWindow.
	if s.maxEntry > 0 && len(value) > s.maxEntry {
		return st.TooLarge, nil
	}
	err := s.c.Set(key, value)
	if err == nil {
		return st.Stored, nil
	}
	// bigcache has no sentinel for oversize; it reports "entry is bigger
	// than max shard size" as a plain error. The substring match is
	// best-effort: if the message ever changes, the write degrades to
	// Rejected, which still triggers the caller's split fallback.
	// MaxEntryBytes is the reliable ceiling.
	if strings.Contains(err.Error(), "bigger than max shard size") {
		return st.TooLarge, nil
	}
	return st.Rejected, err
}

func (s *Store) Del(_ context.Context, key string) error {
	return s.c.Delete(key)
}

func (s *Store) Close(_ context.Context) error {
	return s.c.Close()
}
