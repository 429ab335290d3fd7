package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/BrandonDHaskell/cornerstone/internal/registry/store"
)

func (s *Store) CreateRegistrar(ctx context.Context, rec store.RegistrarRecord) error {
	tag, err := s.pool.Exec(ctx, `
INSERT INTO registrars (registrar_id, name, organization, registered_by, registered_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (registrar_id) DO NOTHING`,
		rec.ID, rec.Name, rec.Organization, rec.RegisteredBy, rec.RegisteredAt.UTC())
	if err != nil {
		return eris.Wrap(err, "postgres: insert registrar")
	}
	return insertedOne(tag)
}

func (s *Store) GetRegistrar(ctx context.Context, id string) (*store.RegistrarRecord, error) {
	var rec store.RegistrarRecord
	err := s.pool.QueryRow(ctx, `
SELECT registrar_id, name, organization, registered_by, registered_at
FROM registrars
WHERE registrar_id = $1`, id).Scan(&rec.ID, &rec.Name, &rec.Organization, &rec.RegisteredBy, &rec.RegisteredAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get registrar")
	}
	return &rec, nil
}
