package types

import "github.com/BrandonDHaskell/cornerstone/internal/registry/store"

type RegisterBuildingRequest struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Address            string `json:"address"`
	ConstructionYear   int    `json:"construction_year"`
	Architect          string `json:"architect"`
	ArchitecturalStyle string `json:"architectural_style"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

type Building struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Address            string `json:"address"`
	ConstructionYear   int    `json:"construction_year"`
	Architect          string `json:"architect"`
	ArchitecturalStyle string `json:"architectural_style"`
	RegistrationDate   string `json:"registration_date"`
	LastUpdated        string `json:"last_updated"`
	RegisteredBy       string `json:"registered_by"`
	Status             string `json:"status"`
}

func BuildingFrom(rec store.BuildingRecord) Building {
	return Building{
		ID:                 rec.ID,
		Name:               rec.Name,
		Address:            rec.Address,
		ConstructionYear:   rec.ConstructionYear,
		Architect:          rec.Architect,
		ArchitecturalStyle: rec.ArchitecturalStyle,
		RegistrationDate:   FormatTime(rec.RegistrationDate),
		LastUpdated:        FormatTime(rec.LastUpdated),
		RegisteredBy:       rec.RegisteredBy,
		Status:             rec.Status,
	}
}

type StatusEvent struct {
	EventID        string `json:"event_id"`
	BuildingID     string `json:"building_id"`
	PreviousStatus string `json:"previous_status"`
	Status         string `json:"status"`
	Reason         string `json:"reason,omitempty"`
	ChangedBy      string `json:"changed_by"`
	ChangedAt      string `json:"changed_at"`
}

func StatusEventFrom(rec store.StatusEventRecord) StatusEvent {
	return StatusEvent{
		EventID:        rec.EventID,
		BuildingID:     rec.BuildingID,
		PreviousStatus: rec.PreviousStatus,
		Status:         rec.Status,
		Reason:         rec.Reason,
		ChangedBy:      rec.ChangedBy,
		ChangedAt:      FormatTime(rec.ChangedAt),
	}
}
