package profile

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Compile-time assertion that MemStore satisfies the Store interface.
var _ Store = (*MemStore)(nil)

// MemStore is a thread-safe, in-memory implementation of [Store].
// It is suitable for one-shot runs and testing.
type MemStore struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

// NewMemStore returns an initialised [MemStore].
func NewMemStore() *MemStore {
	return &MemStore{profiles: make(map[string]Profile)}
}

// Get implements [Store.Get].
func (s *MemStore) Get(ctx context.Context, character string) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[character]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

// Save implements [Store.Save].
func (s *MemStore) Save(ctx context.Context, p *Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profiles == nil {
		s.profiles = make(map[string]Profile)
	}

	now := time.Now().UTC()
	stored := *p
	if prev, ok := s.profiles[p.Character]; ok {
		stored.CreatedAt = prev.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	s.profiles[p.Character] = stored
	p.CreatedAt = stored.CreatedAt
	p.UpdatedAt = stored.UpdatedAt
	return nil
}

// List implements [Store.List].
func (s *MemStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.profiles))
	for name := range s.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Delete implements [Store.Delete].
func (s *MemStore) Delete(ctx context.Context, character string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.profiles, character)
	return nil
}
