package store

import (
	"context"
	"time"
)

// OwnershipRecord is the single active ownership of a building.
// VerifiedBy and VerificationDate are nil until the record is verified.
type OwnershipRecord struct {
	BuildingID       string
	OwnerName        string
	OwnerType        string
	ContactInfo      string
	OwnershipDate    time.Time
	Verified         bool
	VerifiedBy       *string
	VerificationDate *time.Time
	VerificationHash []byte
	RecordedBy       string
	RecordedAt       time.Time
}

type Verification struct {
	VerifiedBy        string
	VerifiedAt        time.Time
	DocumentationHash []byte
}

type OwnershipStore interface {
	// PutOwnership inserts or replaces the ownership of a building,
	// clearing any previous verification.  ErrNotFound if the building
	// does not exist.
	PutOwnership(ctx context.Context, rec OwnershipRecord) error
	// VerifyOwnership marks the ownership verified.  ErrNotFound if the
	// building has no ownership record.
	VerifyOwnership(ctx context.Context, buildingID string, v Verification) error
	// GetOwnership returns nil, nil when the building has no ownership.
	GetOwnership(ctx context.Context, buildingID string) (*OwnershipRecord, error)
}
