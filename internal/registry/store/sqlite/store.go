package sqlite

import (
	"database/sql"
	"time"

	dbpkg "github.com/BrandonDHaskell/cornerstone/internal/db"
	"github.com/BrandonDHaskell/cornerstone/internal/registry/store"
)

var _ store.Backend = (*Store)(nil)

// Store bundles the per-table stores into a store.Backend.  All of them
// share one connection and one writer.
type Store struct {
	*RegistrarStore
	*BuildingStore
	*OwnershipStore
	*DesignationStore
	*FeatureStore
	*ModificationStore
	*StatusEventStore
}

func New(db *sql.DB, writer *dbpkg.Worker) *Store {
	return &Store{
		RegistrarStore:    NewRegistrarStore(db, writer),
		BuildingStore:     NewBuildingStore(db, writer),
		OwnershipStore:    NewOwnershipStore(db, writer),
		DesignationStore:  NewDesignationStore(db, writer),
		FeatureStore:      NewFeatureStore(db, writer),
		ModificationStore: NewModificationStore(db, writer),
		StatusEventStore:  NewStatusEventStore(db, writer),
	}
}

// Timestamps are stored as UTC unix milliseconds.
func toMs(t time.Time) int64 { return t.UTC().UnixMilli() }

func fromMs(ms int64) time.Time { return time.UnixMilli(ms).UTC() }
