package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	st "github.com/unkn0wn-root/chunkcache/store"
)

var ErrNilClient = errors.New("redis store: nil client")

// Redis adapts a go-redis client to the chunkcache Store interface.
// Redis imposes no practical per-entry ceiling of its own, so writes it
// accepts are Stored and everything else is a transport error; a ceiling
// can still be enforced locally via MaxEntryBytes (useful for parity with
// size-capped deployments and for testing the split path against a real
// server).
type Redis struct {
	rdb         goredis.UniversalClient
	maxEntry    int
	closeClient bool
}

var _ st.Store = (*Redis)(nil)

type Config struct {
	Client goredis.UniversalClient
	// MaxEntryBytes, when > 0, rejects larger values with TooLarge before
	// they reach the server.
	MaxEntryBytes int
	// CloseClient: set true only if this store exclusively owns the client.
	CloseClient bool
}

func New(cfg Config) (*Redis, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	return &Redis{rdb: cfg.Client, maxEntry: cfg.MaxEntryBytes, closeClient: cfg.CloseClient}, nil
}

func (s *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.rdb.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return nil, false, nil // miss
	}
	if err != nil {
		return nil, false, err // transport/server error
	}
	return b, true, nil
}

func (s *Redis) GetMulti(ctx context.Context, keys []string) (map[string][]byte, error) {
	if len(keys) == 0 {
		return map[string][]byte{}, nil
	}
	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(keys))
	for i, v := range vals {
		if v == nil {
			continue // miss
		}
		// go-redis returns MGET members as string
		if sv, ok := v.(string); ok {
			out[keys[i]] = []byte(sv)
		}
	}
	return out, nil
}

func (s *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) (st.SetOutcome, error) {
	if s.maxEntry > 0 && len(value) > s.maxEntry {
		return st.TooLarge, nil
	}
	if ttl <= 0 {
		ttl = 0 // non-positive TTL means "no expiry" per store contract
	}
	if err := s.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return st.Rejected, err
	}
	return st.Stored, nil
}

func (s *Redis) Del(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

// Close releases the underlying redis client only when this store owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (s *Redis) Close(context.Context) error {
	if s.closeClient {
		if err := s.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}
