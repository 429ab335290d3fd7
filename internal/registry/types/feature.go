package types

import "github.com/BrandonDHaskell/cornerstone/internal/registry/store"

type AddFeatureRequest struct {
	FeatureID              string `json:"feature_id"`
	FeatureType            string `json:"feature_type"`
	Description            string `json:"description"`
	HistoricalSignificance string `json:"historical_significance"`
	DocumentationHash      string `json:"documentation_hash"`
}

type Feature struct {
	BuildingID             string `json:"building_id"`
	FeatureID              string `json:"feature_id"`
	FeatureType            string `json:"feature_type"`
	Description            string `json:"description"`
	HistoricalSignificance string `json:"historical_significance"`
	DocumentationHash      string `json:"documentation_hash"`
	AddedBy                string `json:"added_by"`
	AddedAt                string `json:"added_at"`
}

func FeatureFrom(rec store.FeatureRecord) Feature {
	return Feature{
		BuildingID:             rec.BuildingID,
		FeatureID:              rec.FeatureID,
		FeatureType:            rec.FeatureType,
		Description:            rec.Description,
		HistoricalSignificance: rec.HistoricalSignificance,
		DocumentationHash:      EncodeHash(rec.DocumentationHash),
		AddedBy:                rec.AddedBy,
		AddedAt:                FormatTime(rec.AddedAt),
	}
}
