// Package memory implements ports.ResultStore in process memory.
package memory

import (
	"context"
	"sync"

	"github.com/btkit/btdiff/pkg/domain"
)

// Store is an in-memory result cache. Safe for concurrent use.
type Store struct {
	data map[string]*domain.DiffResult
	mu   sync.RWMutex
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.DiffResult),
	}
}

// Save keeps a private copy of the result so callers cannot mutate cached
// state after the fact.
func (s *Store) Save(ctx context.Context, key string, result *domain.DiffResult) error {
	cp := snapshot(result)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = cp
	return nil
}

// Load retrieves a cached result. The returned value is the caller's own
// copy; mutating it never affects what later loads see.
func (s *Store) Load(ctx context.Context, key string) (*domain.DiffResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.data[key]
	if !ok {
		return nil, domain.ErrResultNotFound
	}
	return snapshot(res), nil
}

func snapshot(result *domain.DiffResult) *domain.DiffResult {
	cp := *result
	cp.Entries = make([]domain.DiffEntry, len(result.Entries))
	copy(cp.Entries, result.Entries)
	return &cp
}

// Delete removes a cached result. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
