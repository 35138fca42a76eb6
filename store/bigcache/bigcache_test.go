package bigcache

import (
	"context"
	"testing"
	"time"

	st "github.com/unkn0wn-root/chunkcache/store"
)

// TestMaxEntryBytesCeiling: the adapter-owned ceiling reports TooLarge
// before the value reaches bigcache; values at the ceiling pass.
func TestMaxEntryBytesCeiling(t *testing.T) {
	ctx := context.Background()
	s, err := New(Config{LifeWindow: time.Minute, MaxEntryBytes: 64})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close(ctx)

	out, err := s.Set(ctx, "k", make([]byte, 65), 0)
	if err != nil || out != st.TooLarge {
		t.Fatalf("Set over ceiling: out=%v err=%v, want TooLarge", out, err)
	}
	out, err = s.Set(ctx, "k", make([]byte, 64), 0)
	if err != nil || out != st.Stored {
		t.Fatalf("Set at ceiling: out=%v err=%v, want Stored", out, err)
	}
}

// TestShardSizeRejectionMapsToTooLarge pins the bigcache error message
// the substring mapping relies on. With a 1 MiB hard cap across the
// default 1024 shards each shard queue caps at 1 KiB, so a 4 KiB entry
// is refused as oversize, not as a generic rejection.
func TestShardSizeRejectionMapsToTooLarge(t *testing.T) {
	ctx := context.Background()
	s, err := New(Config{
		LifeWindow:         time.Minute,
		MaxEntriesInWindow: 1024,
		MaxEntrySize:       10,
		HardMaxCacheSizeMB: 1,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close(ctx)

	out, err := s.Set(ctx, "k", make([]byte, 4096), 0)
	if err != nil || out != st.TooLarge {
		t.Fatalf("Set: out=%v err=%v, want TooLarge", out, err)
	}
}
