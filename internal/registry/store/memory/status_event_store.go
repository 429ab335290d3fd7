package memory

import (
	"context"
	"sort"
	"time"

	"github.com/BrandonDHaskell/cornerstone/internal/registry/store"
)

func (s *Store) RecordStatusEvent(_ context.Context, rec store.StatusEventRecord) error {
	if rec.ChangedAt.IsZero() {
		rec.ChangedAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, rec)
	return nil
}

func (s *Store) ListStatusEvents(_ context.Context, buildingID string) ([]store.StatusEventRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.StatusEventRecord, 0)
	for _, ev := range s.events {
		if ev.BuildingID == buildingID {
			out = append(out, ev)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ChangedAt.Before(out[j].ChangedAt) })
	return out, nil
}

func (s *Store) PruneOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.events[:0]
	var deleted int64
	for _, ev := range s.events {
		if ev.ChangedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, ev)
	}
	s.events = kept
	return deleted, nil
}

// Events returns a snapshot of every recorded status event.  Intended for
// tests.
func (s *Store) Events() []store.StatusEventRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]store.StatusEventRecord, len(s.events))
	copy(out, s.events)
	return out
}
