package types

import "github.com/BrandonDHaskell/cornerstone/internal/registry/store"

type RegisterOwnershipRequest struct {
	OwnerName     string `json:"owner_name"`
	OwnerType     string `json:"owner_type"`
	ContactInfo   string `json:"contact_info"`
	OwnershipDate string `json:"ownership_date"` // RFC3339 or YYYY-MM-DD
}

type VerifyOwnershipRequest struct {
	DocumentationHash string `json:"documentation_hash"` // 64 hex chars
}

type Ownership struct {
	BuildingID       string  `json:"building_id"`
	OwnerName        string  `json:"owner_name"`
	OwnerType        string  `json:"owner_type"`
	ContactInfo      string  `json:"contact_info"`
	OwnershipDate    string  `json:"ownership_date"`
	Verified         bool    `json:"verified"`
	VerifiedBy       *string `json:"verified_by,omitempty"`
	VerificationDate *string `json:"verification_date,omitempty"`
	VerificationHash string  `json:"verification_hash,omitempty"`
	RecordedBy       string  `json:"recorded_by"`
	RecordedAt       string  `json:"recorded_at"`
}

func OwnershipFrom(rec store.OwnershipRecord) Ownership {
	o := Ownership{
		BuildingID:       rec.BuildingID,
		OwnerName:        rec.OwnerName,
		OwnerType:        rec.OwnerType,
		ContactInfo:      rec.ContactInfo,
		OwnershipDate:    FormatTime(rec.OwnershipDate),
		Verified:         rec.Verified,
		VerifiedBy:       rec.VerifiedBy,
		VerificationHash: EncodeHash(rec.VerificationHash),
		RecordedBy:       rec.RecordedBy,
		RecordedAt:       FormatTime(rec.RecordedAt),
	}
	if rec.VerificationDate != nil {
		s := FormatTime(*rec.VerificationDate)
		o.VerificationDate = &s
	}
	return o
}
