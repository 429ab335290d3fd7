package store

import (
	"context"
	"time"
)

type BuildingRecord struct {
	ID                 string
	Name               string
	Address            string
	ConstructionYear   int
	Architect          string
	ArchitecturalStyle string
	RegistrationDate   time.Time
	LastUpdated        time.Time
	RegisteredBy       string
	Status             string
}

// BuildingFilter narrows ListBuildings.  A zero Limit means no limit.
type BuildingFilter struct {
	Status string
	Limit  int
	Offset int
}

type BuildingStore interface {
	// CreateBuilding returns ErrAlreadyExists if the id is taken.
	CreateBuilding(ctx context.Context, rec BuildingRecord) error
	// GetBuilding returns nil, nil when no building has the id.
	GetBuilding(ctx context.Context, id string) (*BuildingRecord, error)
	// UpdateBuildingStatus sets status and last_updated, returning the
	// previous status.  ErrNotFound if the building does not exist.
	UpdateBuildingStatus(ctx context.Context, id, status string, at time.Time) (string, error)
	// ListBuildings returns buildings ordered by id.
	ListBuildings(ctx context.Context, f BuildingFilter) ([]BuildingRecord, error)
}
