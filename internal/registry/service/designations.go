package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/BrandonDHaskell/cornerstone/internal/registry/store"
	"github.com/BrandonDHaskell/cornerstone/internal/registry/types"
)

func (r *Registry) AddDesignation(ctx context.Context, caller, buildingID string, req types.AddDesignationRequest) (err error) {
	ctx, done := r.begin(ctx, "AddDesignation",
		attribute.String("building.id", buildingID),
		attribute.String("designation.id", req.DesignationID),
	)
	defer done(&err)

	if _, err = r.authorize(ctx, caller); err != nil {
		return err
	}
	if buildingID, err = requireID("building_id", buildingID); err != nil {
		return err
	}
	designationID, err := requireID("designation_id", req.DesignationID)
	if err != nil {
		return err
	}
	date, err := parseDate("designation_date", req.DesignationDate)
	if err != nil {
		return err
	}
	hash, err := decodeHash("documentation_hash", req.DocumentationHash)
	if err != nil {
		return err
	}

	err = r.store.AddDesignation(ctx, store.DesignationRecord{
		BuildingID:           buildingID,
		DesignationID:        designationID,
		DesignationType:      req.DesignationType,
		DesignatingAuthority: req.DesignatingAuthority,
		DesignationDate:      date,
		Criteria:             req.Criteria,
		DocumentationHash:    hash,
		Status:               StatusActive,
	})
	return translate(err, ErrBuildingNotFound, ErrDesignationExists)
}

func (r *Registry) GetHistoricalDesignation(ctx context.Context, buildingID, designationID string) (_ *store.DesignationRecord, err error) {
	ctx, done := r.begin(ctx, "GetHistoricalDesignation",
		attribute.String("building.id", buildingID),
		attribute.String("designation.id", designationID),
	)
	defer done(&err)

	if buildingID == "" || designationID == "" {
		return nil, nil
	}
	return r.store.GetDesignation(ctx, buildingID, designationID)
}

func (r *Registry) ListDesignations(ctx context.Context, buildingID string) (_ []store.DesignationRecord, err error) {
	ctx, done := r.begin(ctx, "ListDesignations", attribute.String("building.id", buildingID))
	defer done(&err)

	return r.store.ListDesignations(ctx, buildingID)
}
