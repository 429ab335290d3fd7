package store

import (
	"errors"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Backend is the full set of record stores a registry needs.  The memory and
// postgres backends implement it with a single type; the sqlite backend
// composes its per-table stores.
type Backend interface {
	RegistrarStore
	BuildingStore
	OwnershipStore
	DesignationStore
	FeatureStore
	ModificationStore
	StatusEventStore
}
