package store

import (
	"context"
	"time"
)

type ModificationRecord struct {
	BuildingID        string
	ModificationID    uint64
	ModificationType  string
	Description       string
	Date              time.Time
	PerformedBy       string
	DocumentationHash []byte
	RecordedBy        string
	RecordedAt        time.Time
}

type ModificationStore interface {
	// AppendModification assigns the next modification id for the building
	// (starting at 1), stores the record and returns the id.  rec's
	// ModificationID is ignored.  ErrNotFound if the building does not exist.
	AppendModification(ctx context.Context, rec ModificationRecord) (uint64, error)
	GetModification(ctx context.Context, buildingID string, modificationID uint64) (*ModificationRecord, error)
	ListModifications(ctx context.Context, buildingID string) ([]ModificationRecord, error)
}
