package types

import (
	"time"

	"github.com/BrandonDHaskell/cornerstone/internal/registry/store"
)

type RegisterRegistrarRequest struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Organization string `json:"organization"`
}

type Registrar struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Organization string `json:"organization"`
	RegisteredBy string `json:"registered_by"`
	RegisteredAt string `json:"registered_at"`
}

func RegistrarFrom(rec store.RegistrarRecord) Registrar {
	return Registrar{
		ID:           rec.ID,
		Name:         rec.Name,
		Organization: rec.Organization,
		RegisteredBy: rec.RegisteredBy,
		RegisteredAt: FormatTime(rec.RegisteredAt),
	}
}

// FormatTime renders a stored timestamp for the wire.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
