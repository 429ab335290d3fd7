package store

import (
	"context"
	"time"
)

type FeatureRecord struct {
	BuildingID             string
	FeatureID              string
	FeatureType            string
	Description            string
	HistoricalSignificance string
	DocumentationHash      []byte
	AddedBy                string
	AddedAt                time.Time
}

type FeatureStore interface {
	// AddFeature returns ErrNotFound if the building does not exist and
	// ErrAlreadyExists if the (building, feature) pair is taken.
	AddFeature(ctx context.Context, rec FeatureRecord) error
	GetFeature(ctx context.Context, buildingID, featureID string) (*FeatureRecord, error)
	ListFeatures(ctx context.Context, buildingID string) ([]FeatureRecord, error)
}
