package types

import "github.com/BrandonDHaskell/cornerstone/internal/registry/store"

type RecordModificationRequest struct {
	ModificationType  string `json:"modification_type"`
	Description       string `json:"description"`
	Date              string `json:"date"`
	PerformedBy       string `json:"performed_by"`
	DocumentationHash string `json:"documentation_hash"`
}

type Modification struct {
	BuildingID        string `json:"building_id"`
	ModificationID    uint64 `json:"modification_id"`
	ModificationType  string `json:"modification_type"`
	Description       string `json:"description"`
	Date              string `json:"date"`
	PerformedBy       string `json:"performed_by"`
	DocumentationHash string `json:"documentation_hash"`
	RecordedBy        string `json:"recorded_by"`
	RecordedAt        string `json:"recorded_at"`
}

func ModificationFrom(rec store.ModificationRecord) Modification {
	return Modification{
		BuildingID:        rec.BuildingID,
		ModificationID:    rec.ModificationID,
		ModificationType:  rec.ModificationType,
		Description:       rec.Description,
		Date:              FormatTime(rec.Date),
		PerformedBy:       rec.PerformedBy,
		DocumentationHash: EncodeHash(rec.DocumentationHash),
		RecordedBy:        rec.RecordedBy,
		RecordedAt:        FormatTime(rec.RecordedAt),
	}
}
