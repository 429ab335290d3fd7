package store

import (
	"context"
	"time"
)

type RegistrarRecord struct {
	ID           string
	Name         string
	Organization string
	RegisteredBy string
	RegisteredAt time.Time
}

type RegistrarStore interface {
	// CreateRegistrar returns ErrAlreadyExists if the id is taken.
	CreateRegistrar(ctx context.Context, rec RegistrarRecord) error
	// GetRegistrar returns nil, nil when no registrar has the id.
	GetRegistrar(ctx context.Context, id string) (*RegistrarRecord, error)
}
