package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/BrandonDHaskell/cornerstone/internal/registry/store"
	"github.com/BrandonDHaskell/cornerstone/internal/registry/types"
)

// RecordModification appends a modification and returns its id, which
// counts from 1 independently for each building.
func (r *Registry) RecordModification(ctx context.Context, caller, buildingID string, req types.RecordModificationRequest) (_ uint64, err error) {
	ctx, done := r.begin(ctx, "RecordModification", attribute.String("building.id", buildingID))
	defer done(&err)

	caller, err = r.authorize(ctx, caller)
	if err != nil {
		return 0, err
	}
	if buildingID, err = requireID("building_id", buildingID); err != nil {
		return 0, err
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return 0, err
	}
	hash, err := decodeHash("documentation_hash", req.DocumentationHash)
	if err != nil {
		return 0, err
	}

	id, err := r.store.AppendModification(ctx, store.ModificationRecord{
		BuildingID:        buildingID,
		ModificationType:  req.ModificationType,
		Description:       req.Description,
		Date:              date,
		PerformedBy:       req.PerformedBy,
		DocumentationHash: hash,
		RecordedBy:        caller,
		RecordedAt:        r.now(),
	})
	if err != nil {
		return 0, translate(err, ErrBuildingNotFound, nil)
	}
	return id, nil
}

func (r *Registry) GetBuildingModification(ctx context.Context, buildingID string, modificationID uint64) (_ *store.ModificationRecord, err error) {
	ctx, done := r.begin(ctx, "GetBuildingModification",
		attribute.String("building.id", buildingID),
		attribute.Int64("modification.id", int64(modificationID)),
	)
	defer done(&err)

	if buildingID == "" || modificationID == 0 {
		return nil, nil
	}
	return r.store.GetModification(ctx, buildingID, modificationID)
}

func (r *Registry) ListModifications(ctx context.Context, buildingID string) (_ []store.ModificationRecord, err error) {
	ctx, done := r.begin(ctx, "ListModifications", attribute.String("building.id", buildingID))
	defer done(&err)

	return r.store.ListModifications(ctx, buildingID)
}
