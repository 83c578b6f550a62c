package session

import (
	"bytes"
	"context"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/cache"
)

type memoryEntry struct {
	data      []byte
	touchedAt time.Time
	expiresAt time.Time // zero means no expiry
}

// MemoryStore keeps sessions in process memory. It is bounded by an LRU
// when WithMaxEntries is set and is meant for tests and single-instance
// deployments.
type MemoryStore struct {
	items *cache.LRU[string, memoryEntry]
	now   func() time.Time
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithMaxEntries bounds the store; the least recently used session is
// dropped when the bound is exceeded.
func WithMaxEntries(n int) MemoryOption {
	return func(s *MemoryStore) {
		s.items = cache.NewLRU[string, memoryEntry](n)
	}
}

// WithMemoryClock overrides the time source.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewMemoryStore creates an unbounded in-memory store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		items: cache.NewLRU[string, memoryEntry](0),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Read returns a copy of the payload stored under id.
func (s *MemoryStore) Read(_ context.Context, id string) ([]byte, error) {
	e, ok := s.items.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		s.items.Remove(id)
		return nil, ErrSessionNotFound
	}
	return bytes.Clone(e.data), nil
}

// Write stores a copy of data under id.
func (s *MemoryStore) Write(_ context.Context, id string, data []byte, ttl time.Duration) error {
	now := s.now()
	e := memoryEntry{data: bytes.Clone(data), touchedAt: now}
	if ttl > 0 {
		e.expiresAt = now.Add(ttl)
	}
	s.items.Put(id, e)
	return nil
}

// Destroy removes id.
func (s *MemoryStore) Destroy(_ context.Context, id string) error {
	s.items.Remove(id)
	return nil
}

// GC removes entries that expired or were not written for maxLifetime.
func (s *MemoryStore) GC(_ context.Context, maxLifetime time.Duration) (int, error) {
	now := s.now()
	return s.items.RemoveFunc(func(_ string, e memoryEntry) bool {
		if !e.expiresAt.IsZero() && !now.Before(e.expiresAt) {
			return true
		}
		return maxLifetime > 0 && now.Sub(e.touchedAt) >= maxLifetime
	}), nil
}

// Len returns the number of stored entries, expired ones included.
func (s *MemoryStore) Len() int {
	return s.items.Len()
}
