package store

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory HistoryStore for tests and ephemeral sessions
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Entry // newest first
	limit   int
}

// NewMemoryStore creates an empty store keeping at most limit entries
func NewMemoryStore(limit int) *MemoryStore {
	return &MemoryStore{limit: normalizeLimit(limit)}
}

// Add prepends the entry and drops the oldest beyond the limit
func (s *MemoryStore) Add(ctx context.Context, entry Entry) (Entry, error) {
	entry, err := prepare(entry)
	if err != nil {
		return entry, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append([]Entry{entry}, s.entries...)
	if len(s.entries) > s.limit {
		s.entries = s.entries[:s.limit]
	}
	return entry, nil
}

// List returns a copy of up to limit entries, newest first
func (s *MemoryStore) List(ctx context.Context, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Entry, n)
	copy(out, s.entries[:n])
	return out, nil
}

// Get returns the entry with the given ID
func (s *MemoryStore) Get(ctx context.Context, id string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return Entry{}, notFound(id)
}

// Clear removes all entries
func (s *MemoryStore) Clear(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.entries)
	s.entries = nil
	return n, nil
}

// Ping always succeeds
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op for the memory store
func (s *MemoryStore) Close() error {
	return nil
}
