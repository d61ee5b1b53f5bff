package grants

import (
	"context"
	"sync"
)

// MemoryStore is a thread-safe in-memory Store for tests and development.
// It makes defensive copies so callers can never mutate internal state.
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[grantKey]Grant
}

// NewMemoryStore creates a store seeded with the given grants.
// Duplicate (role, module, action) rows follow last-write-wins.
func NewMemoryStore(seed ...Grant) *MemoryStore {
	s := &MemoryStore{rows: make(map[grantKey]Grant, len(seed))}
	for _, g := range seed {
		g.Action = g.Action.Normalize()
		s.rows[g.key()] = g
	}
	return s
}

// ListGrants returns every grant recorded for the role.
func (s *MemoryStore) ListGrants(ctx context.Context, role Role) ([]Grant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Grant
	for _, g := range s.rows {
		if g.Role == role {
			out = append(out, g)
		}
	}
	return out, nil
}

// ListAllGrants returns the whole grid.
func (s *MemoryStore) ListAllGrants(ctx context.Context) ([]Grant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Grant, 0, len(s.rows))
	for _, g := range s.rows {
		out = append(out, g)
	}
	return out, nil
}

// UpdateGrants applies module-level changes, fanning each update out to
// all actions of the module.
func (s *MemoryStore) UpdateGrants(ctx context.Context, updates []Update) error {
	if len(updates) == 0 {
		return ErrEmptyUpdate
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range updates {
		for _, a := range Actions() {
			g := Grant{Role: u.Role, Module: u.Module, Action: a, Allowed: u.Allowed}
			s.rows[g.key()] = g
		}
	}
	return nil
}

// Put inserts or replaces a single grant row. Intended for test setup.
func (s *MemoryStore) Put(g Grant) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g.Action = g.Action.Normalize()
	s.rows[g.key()] = g
}
