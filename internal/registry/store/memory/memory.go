package memory

import (
	"sync"

	"github.com/BrandonDHaskell/cornerstone/internal/registry/store"
)

var _ store.Backend = (*Store)(nil)

// Store keeps every record in process memory behind a single lock, so each
// mutating call is atomic with respect to every other.
type Store struct {
	mu sync.RWMutex

	registrars    map[string]store.RegistrarRecord
	buildings     map[string]store.BuildingRecord
	ownership     map[string]store.OwnershipRecord
	designations  map[string]map[string]store.DesignationRecord
	features      map[string]map[string]store.FeatureRecord
	modifications map[string][]store.ModificationRecord
	events        []store.StatusEventRecord
}

func New() *Store {
	return &Store{
		registrars:    make(map[string]store.RegistrarRecord),
		buildings:     make(map[string]store.BuildingRecord),
		ownership:     make(map[string]store.OwnershipRecord),
		designations:  make(map[string]map[string]store.DesignationRecord),
		features:      make(map[string]map[string]store.FeatureRecord),
		modifications: make(map[string][]store.ModificationRecord),
	}
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
