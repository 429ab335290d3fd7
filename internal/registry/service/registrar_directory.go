package service

import (
	"context"

	"github.com/BrandonDHaskell/cornerstone/internal/registry/store"
)

// RegistrarDirectory answers whether an identity is a registered registrar.
type RegistrarDirectory struct {
	store store.RegistrarStore
}

func NewRegistrarDirectory(st store.RegistrarStore) *RegistrarDirectory {
	return &RegistrarDirectory{store: st}
}

func (d *RegistrarDirectory) IsRegistrar(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	rec, err := d.store.GetRegistrar(ctx, id)
	if err != nil {
		return false, err
	}
	return rec != nil, nil
}
