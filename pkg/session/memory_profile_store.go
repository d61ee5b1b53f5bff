package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryProfileStore is a ProfileStore for tests and local development.
type MemoryProfileStore struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]Profile
}

// NewMemoryProfileStore creates an empty in-memory profile store.
func NewMemoryProfileStore() *MemoryProfileStore {
	return &MemoryProfileStore{profiles: make(map[uuid.UUID]Profile)}
}

// Put inserts or replaces the profile keyed by its UserID.
func (s *MemoryProfileStore) Put(p Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.UserID] = p
}

// Delete removes the profile for the user, if any.
func (s *MemoryProfileStore) Delete(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.profiles, userID)
}

// GetProfile returns a copy of the profile, or ErrProfileNotFound.
func (s *MemoryProfileStore) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return &p, nil
}
