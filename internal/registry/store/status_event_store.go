package store

import (
	"context"
	"time"
)

// StatusEventRecord is one entry of the building status audit log.
type StatusEventRecord struct {
	EventID        string
	BuildingID     string
	PreviousStatus string
	Status         string
	Reason         string
	ChangedBy      string
	ChangedAt      time.Time
}

type StatusEventStore interface {
	RecordStatusEvent(ctx context.Context, rec StatusEventRecord) error
	// ListStatusEvents returns a building's events oldest first.
	ListStatusEvents(ctx context.Context, buildingID string) ([]StatusEventRecord, error)
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
