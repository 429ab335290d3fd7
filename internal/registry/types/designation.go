package types

import "github.com/BrandonDHaskell/cornerstone/internal/registry/store"

type AddDesignationRequest struct {
	DesignationID        string `json:"designation_id"`
	DesignationType      string `json:"designation_type"`
	DesignatingAuthority string `json:"designating_authority"`
	DesignationDate      string `json:"designation_date"`
	Criteria             string `json:"criteria"`
	DocumentationHash    string `json:"documentation_hash"`
}

type Designation struct {
	BuildingID           string `json:"building_id"`
	DesignationID        string `json:"designation_id"`
	DesignationType      string `json:"designation_type"`
	DesignatingAuthority string `json:"designating_authority"`
	DesignationDate      string `json:"designation_date"`
	Criteria             string `json:"criteria"`
	DocumentationHash    string `json:"documentation_hash"`
	Status               string `json:"status"`
}

func DesignationFrom(rec store.DesignationRecord) Designation {
	return Designation{
		BuildingID:           rec.BuildingID,
		DesignationID:        rec.DesignationID,
		DesignationType:      rec.DesignationType,
		DesignatingAuthority: rec.DesignatingAuthority,
		DesignationDate:      FormatTime(rec.DesignationDate),
		Criteria:             rec.Criteria,
		DocumentationHash:    EncodeHash(rec.DocumentationHash),
		Status:               rec.Status,
	}
}
