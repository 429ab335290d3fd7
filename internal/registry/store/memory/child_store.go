package memory

import (
	"context"
	"sort"

	"github.com/BrandonDHaskell/cornerstone/internal/registry/store"
)

func (s *Store) AddDesignation(_ context.Context, rec store.DesignationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.buildings[rec.BuildingID]; !ok {
		return store.ErrNotFound
	}
	byID := s.designations[rec.BuildingID]
	if byID == nil {
		byID = make(map[string]store.DesignationRecord)
		s.designations[rec.BuildingID] = byID
	}
	if _, ok := byID[rec.DesignationID]; ok {
		return store.ErrAlreadyExists
	}
	rec.DocumentationHash = cloneBytes(rec.DocumentationHash)
	byID[rec.DesignationID] = rec
	return nil
}

func (s *Store) GetDesignation(_ context.Context, buildingID, designationID string) (*store.DesignationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.designations[buildingID][designationID]
	if !ok {
		return nil, nil
	}
	rec.DocumentationHash = cloneBytes(rec.DocumentationHash)
	return &rec, nil
}

func (s *Store) ListDesignations(_ context.Context, buildingID string) ([]store.DesignationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.DesignationRecord, 0, len(s.designations[buildingID]))
	for _, rec := range s.designations[buildingID] {
		rec.DocumentationHash = cloneBytes(rec.DocumentationHash)
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DesignationID < out[j].DesignationID })
	return out, nil
}

func (s *Store) AddFeature(_ context.Context, rec store.FeatureRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.buildings[rec.BuildingID]; !ok {
		return store.ErrNotFound
	}
	byID := s.features[rec.BuildingID]
	if byID == nil {
		byID = make(map[string]store.FeatureRecord)
		s.features[rec.BuildingID] = byID
	}
	if _, ok := byID[rec.FeatureID]; ok {
		return store.ErrAlreadyExists
	}
	rec.DocumentationHash = cloneBytes(rec.DocumentationHash)
	byID[rec.FeatureID] = rec
	return nil
}

func (s *Store) GetFeature(_ context.Context, buildingID, featureID string) (*store.FeatureRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.features[buildingID][featureID]
	if !ok {
		return nil, nil
	}
	rec.DocumentationHash = cloneBytes(rec.DocumentationHash)
	return &rec, nil
}

func (s *Store) ListFeatures(_ context.Context, buildingID string) ([]store.FeatureRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.FeatureRecord, 0, len(s.features[buildingID]))
	for _, rec := range s.features[buildingID] {
		rec.DocumentationHash = cloneBytes(rec.DocumentationHash)
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FeatureID < out[j].FeatureID })
	return out, nil
}

// AppendModification relies on the per-building slice being dense: the
// record at index i always carries id i+1.
func (s *Store) AppendModification(_ context.Context, rec store.ModificationRecord) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.buildings[rec.BuildingID]; !ok {
		return 0, store.ErrNotFound
	}
	mods := s.modifications[rec.BuildingID]
	rec.ModificationID = uint64(len(mods)) + 1
	rec.DocumentationHash = cloneBytes(rec.DocumentationHash)
	s.modifications[rec.BuildingID] = append(mods, rec)
	return rec.ModificationID, nil
}

func (s *Store) GetModification(_ context.Context, buildingID string, modificationID uint64) (*store.ModificationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mods := s.modifications[buildingID]
	if modificationID == 0 || modificationID > uint64(len(mods)) {
		return nil, nil
	}
	rec := mods[modificationID-1]
	rec.DocumentationHash = cloneBytes(rec.DocumentationHash)
	return &rec, nil
}

func (s *Store) ListModifications(_ context.Context, buildingID string) ([]store.ModificationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mods := s.modifications[buildingID]
	out := make([]store.ModificationRecord, len(mods))
	for i, rec := range mods {
		rec.DocumentationHash = cloneBytes(rec.DocumentationHash)
		out[i] = rec
	}
	return out, nil
}
