package revocation

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process denylist for tests and single-node dev runs.
// It expires entries lazily on lookup.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

// NewMemoryStore returns an empty in-memory denylist.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]time.Time)}
}

// Revoke adds jti until now+ttl.
func (s *MemoryStore) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Minute
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[jti] = time.Now().Add(ttl)
	return nil
}

// IsRevoked reports whether jti is present and not yet expired. Expired
// entries are dropped on the way out.
func (s *MemoryStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	until, ok := s.entries[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(until) {
		delete(s.entries, jti)
		return false, nil
	}
	return true, nil
}
