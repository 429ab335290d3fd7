package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/BrandonDHaskell/cornerstone/internal/registry/store"
	"github.com/BrandonDHaskell/cornerstone/internal/registry/types"
)

// RegisterOwnership records the building's owner, replacing any previous
// ownership and its verification.
func (r *Registry) RegisterOwnership(ctx context.Context, caller, buildingID string, req types.RegisterOwnershipRequest) (err error) {
	ctx, done := r.begin(ctx, "RegisterOwnership", attribute.String("building.id", buildingID))
	defer done(&err)

	caller, err = r.authorize(ctx, caller)
	if err != nil {
		return err
	}
	if buildingID, err = requireID("building_id", buildingID); err != nil {
		return err
	}
	owned, err := parseDate("ownership_date", req.OwnershipDate)
	if err != nil {
		return err
	}

	err = r.store.PutOwnership(ctx, store.OwnershipRecord{
		BuildingID:    buildingID,
		OwnerName:     req.OwnerName,
		OwnerType:     req.OwnerType,
		ContactInfo:   req.ContactInfo,
		OwnershipDate: owned,
		RecordedBy:    caller,
		RecordedAt:    r.now(),
	})
	return translate(err, ErrBuildingNotFound, nil)
}

// VerifyOwnership marks the ownership verified by the caller.  Verifying an
// already verified record restamps verifier, time and hash.
func (r *Registry) VerifyOwnership(ctx context.Context, caller, buildingID string, req types.VerifyOwnershipRequest) (err error) {
	ctx, done := r.begin(ctx, "VerifyOwnership", attribute.String("building.id", buildingID))
	defer done(&err)

	caller, err = r.authorize(ctx, caller)
	if err != nil {
		return err
	}
	if buildingID, err = requireID("building_id", buildingID); err != nil {
		return err
	}
	hash, err := decodeHash("documentation_hash", req.DocumentationHash)
	if err != nil {
		return err
	}

	err = r.store.VerifyOwnership(ctx, buildingID, store.Verification{
		VerifiedBy:        caller,
		VerifiedAt:        r.now(),
		DocumentationHash: hash,
	})
	return translate(err, ErrOwnershipNotFound, nil)
}

func (r *Registry) GetBuildingOwnership(ctx context.Context, buildingID string) (_ *store.OwnershipRecord, err error) {
	ctx, done := r.begin(ctx, "GetBuildingOwnership", attribute.String("building.id", buildingID))
	defer done(&err)

	if buildingID == "" {
		return nil, nil
	}
	return r.store.GetOwnership(ctx, buildingID)
}
