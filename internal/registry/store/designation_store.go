package store

import (
	"context"
	"time"
)

type DesignationRecord struct {
	BuildingID           string
	DesignationID        string
	DesignationType      string
	DesignatingAuthority string
	DesignationDate      time.Time
	Criteria             string
	DocumentationHash    []byte
	Status               string
}

type DesignationStore interface {
	// AddDesignation returns ErrNotFound if the building does not exist and
	// ErrAlreadyExists if the (building, designation) pair is taken.
	AddDesignation(ctx context.Context, rec DesignationRecord) error
	GetDesignation(ctx context.Context, buildingID, designationID string) (*DesignationRecord, error)
	ListDesignations(ctx context.Context, buildingID string) ([]DesignationRecord, error)
}
