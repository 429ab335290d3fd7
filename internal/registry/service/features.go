package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/BrandonDHaskell/cornerstone/internal/registry/store"
	"github.com/BrandonDHaskell/cornerstone/internal/registry/types"
)

func (r *Registry) AddFeature(ctx context.Context, caller, buildingID string, req types.AddFeatureRequest) (err error) {
	ctx, done := r.begin(ctx, "AddFeature",
		attribute.String("building.id", buildingID),
		attribute.String("feature.id", req.FeatureID),
	)
	defer done(&err)

	caller, err = r.authorize(ctx, caller)
	if err != nil {
		return err
	}
	if buildingID, err = requireID("building_id", buildingID); err != nil {
		return err
	}
	featureID, err := requireID("feature_id", req.FeatureID)
	if err != nil {
		return err
	}
	hash, err := decodeHash("documentation_hash", req.DocumentationHash)
	if err != nil {
		return err
	}

	err = r.store.AddFeature(ctx, store.FeatureRecord{
		BuildingID:             buildingID,
		FeatureID:              featureID,
		FeatureType:            req.FeatureType,
		Description:            req.Description,
		HistoricalSignificance: req.HistoricalSignificance,
		DocumentationHash:      hash,
		AddedBy:                caller,
		AddedAt:                r.now(),
	})
	return translate(err, ErrBuildingNotFound, ErrFeatureExists)
}

func (r *Registry) GetBuildingFeature(ctx context.Context, buildingID, featureID string) (_ *store.FeatureRecord, err error) {
	ctx, done := r.begin(ctx, "GetBuildingFeature",
		attribute.String("building.id", buildingID),
		attribute.String("feature.id", featureID),
	)
	defer done(&err)

	if buildingID == "" || featureID == "" {
		return nil, nil
	}
	return r.store.GetFeature(ctx, buildingID, featureID)
}

func (r *Registry) ListFeatures(ctx context.Context, buildingID string) (_ []store.FeatureRecord, err error) {
	ctx, done := r.begin(ctx, "ListFeatures", attribute.String("building.id", buildingID))
	defer done(&err)

	return r.store.ListFeatures(ctx, buildingID)
}
