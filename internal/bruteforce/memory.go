package bruteforce

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type counter struct {
	hits atomic.Int64
}

// MemoryStore keeps per-key counters in process memory. A key's counter is
// dropped once its window has elapsed, or earlier if MaxEntries is exceeded.
type MemoryStore struct {
	mu       sync.Mutex // serializes get-or-create of counters
	counters *expirable.LRU[string, *counter]
	limit    int64
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a store whose window starts at a key's first hit.
func NewMemoryStore(cfg Config) *MemoryStore {
	cfg = cfg.withDefaults()
	return &MemoryStore{
		counters: expirable.NewLRU[string, *counter](cfg.MaxEntries, nil, cfg.Window),
		limit:    cfg.Limit,
	}
}

func (s *MemoryStore) Increment(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	c, ok := s.counters.Get(key)
	if !ok {
		c = &counter{}
		s.counters.Add(key, c)
	}
	s.mu.Unlock()

	return c.hits.Add(1), nil
}

func (s *MemoryStore) IsBlocked(_ context.Context, key string) (bool, error) {
	c, ok := s.counters.Peek(key)
	if !ok {
		return false, nil
	}
	return c.hits.Load() >= s.limit, nil
}

// Len returns the number of live counters.
func (s *MemoryStore) Len() int {
	return s.counters.Len()
}
