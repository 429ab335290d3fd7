package memory

import (
	"context"
	"sort"
	"time"

	"github.com/BrandonDHaskell/cornerstone/internal/registry/store"
)

func (s *Store) CreateBuilding(_ context.Context, rec store.BuildingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.buildings[rec.ID]; ok {
		return store.ErrAlreadyExists
	}
	s.buildings[rec.ID] = rec
	return nil
}

func (s *Store) GetBuilding(_ context.Context, id string) (*store.BuildingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.buildings[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *Store) UpdateBuildingStatus(_ context.Context, id, status string, at time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.buildings[id]
	if !ok {
		return "", store.ErrNotFound
	}
	prev := rec.Status
	rec.Status = status
	rec.LastUpdated = at
	s.buildings[id] = rec
	return prev, nil
}

func (s *Store) ListBuildings(_ context.Context, f store.BuildingFilter) ([]store.BuildingRecord, error) {
	s.mu.RLock()
	out := make([]store.BuildingRecord, 0, len(s.buildings))
	for _, rec := range s.buildings {
		if f.Status != "" && rec.Status != f.Status {
			continue
		}
		out = append(out, rec)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []store.BuildingRecord{}, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}
