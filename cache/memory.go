package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry[V any] struct {
	value      V
	insertedAt time.Time
	seq        uint64
}

// MemoryStore is a process-local Store with lazy TTL expiry and
// oldest-insertion eviction.
type MemoryStore[V any] struct {
	mu       sync.Mutex
	entries  map[string]memoryEntry[V]
	ttl      time.Duration
	capacity int
	now      Clock
	seq      uint64
}

var _ Store[int] = (*MemoryStore[int])(nil)

// NewMemoryStore creates a MemoryStore. Non-positive ttl and capacity take
// the package defaults; a nil clock uses time.Now.
func NewMemoryStore[V any](ttl time.Duration, capacity int, clock Clock) *MemoryStore[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if clock == nil {
		clock = time.Now
	}
	return &MemoryStore[V]{
		entries:  make(map[string]memoryEntry[V], capacity),
		ttl:      ttl,
		capacity: capacity,
		now:      clock,
	}
}

// Get returns the live value for key. An expired entry is removed.
func (s *MemoryStore[V]) Get(_ context.Context, key string) (V, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero V
	e, ok := s.entries[key]
	if !ok {
		return zero, false, nil
	}
	if s.now().Sub(e.insertedAt) >= s.ttl {
		delete(s.entries, key)
		return zero, false, nil
	}
	return e.value, true, nil
}

// Set stores v under key with a fresh insertion time. A new key arriving at
// capacity evicts the oldest insertion first; overwriting never evicts.
func (s *MemoryStore[V]) Set(_ context.Context, key string, v V) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; !exists && len(s.entries) >= s.capacity {
		s.evictOldest()
	}
	s.seq++
	s.entries[key] = memoryEntry[V]{value: v, insertedAt: s.now(), seq: s.seq}
	return nil
}

// Len returns the number of entries, expired ones included.
func (s *MemoryStore[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryStore[V]) evictOldest() {
	var (
		oldestKey string
		oldest    memoryEntry[V]
		found     bool
	)
	for k, e := range s.entries {
		if !found || e.insertedAt.Before(oldest.insertedAt) ||
			(e.insertedAt.Equal(oldest.insertedAt) && e.seq < oldest.seq) {
			oldestKey, oldest, found = k, e, true
		}
	}
	if found {
		delete(s.entries, oldestKey)
	}
}
