package memory

import (
	"context"

	"github.com/BrandonDHaskell/cornerstone/internal/registry/store"
)

func (s *Store) PutOwnership(_ context.Context, rec store.OwnershipRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.buildings[rec.BuildingID]; !ok {
		return store.ErrNotFound
	}
	rec.Verified = false
	rec.VerifiedBy = nil
	rec.VerificationDate = nil
	rec.VerificationHash = nil
	s.ownership[rec.BuildingID] = rec
	return nil
}

func (s *Store) VerifyOwnership(_ context.Context, buildingID string, v store.Verification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.ownership[buildingID]
	if !ok {
		return store.ErrNotFound
	}
	by := v.VerifiedBy
	at := v.VerifiedAt
	rec.Verified = true
	rec.VerifiedBy = &by
	rec.VerificationDate = &at
	rec.VerificationHash = cloneBytes(v.DocumentationHash)
	s.ownership[buildingID] = rec
	return nil
}

func (s *Store) GetOwnership(_ context.Context, buildingID string) (*store.OwnershipRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.ownership[buildingID]
	if !ok {
		return nil, nil
	}
	if rec.VerifiedBy != nil {
		by := *rec.VerifiedBy
		rec.VerifiedBy = &by
	}
	if rec.VerificationDate != nil {
		at := *rec.VerificationDate
		rec.VerificationDate = &at
	}
	rec.VerificationHash = cloneBytes(rec.VerificationHash)
	return &rec, nil
}
