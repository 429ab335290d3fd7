package memory

import (
	"context"

	"github.com/BrandonDHaskell/cornerstone/internal/registry/store"
)

func (s *Store) CreateRegistrar(_ context.Context, rec store.RegistrarRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.registrars[rec.ID]; ok {
		return store.ErrAlreadyExists
	}
	s.registrars[rec.ID] = rec
	return nil
}

func (s *Store) GetRegistrar(_ context.Context, id string) (*store.RegistrarRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.registrars[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}
