package service

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/BrandonDHaskell/cornerstone/internal/registry/store"
	"github.com/BrandonDHaskell/cornerstone/internal/registry/types"
)

// RegisterRegistrar is open to any identified caller; it is how the first
// registrar comes to exist.
func (r *Registry) RegisterRegistrar(ctx context.Context, caller string, req types.RegisterRegistrarRequest) (err error) {
	ctx, done := r.begin(ctx, "RegisterRegistrar", attribute.String("registrar.id", req.ID))
	defer done(&err)

	caller = strings.TrimSpace(caller)
	if caller == "" {
		return ErrMissingCaller
	}
	id, err := requireID("id", req.ID)
	if err != nil {
		return err
	}

	err = r.store.CreateRegistrar(ctx, store.RegistrarRecord{
		ID:           id,
		Name:         req.Name,
		Organization: req.Organization,
		RegisteredBy: caller,
		RegisteredAt: r.now(),
	})
	return translate(err, nil, ErrRegistrarExists)
}

// GetRegistrar returns nil, nil when no registrar has the id.
func (r *Registry) GetRegistrar(ctx context.Context, id string) (_ *store.RegistrarRecord, err error) {
	ctx, done := r.begin(ctx, "GetRegistrar", attribute.String("registrar.id", id))
	defer done(&err)

	if id == "" {
		return nil, nil
	}
	return r.store.GetRegistrar(ctx, id)
}
