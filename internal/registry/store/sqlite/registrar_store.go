package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rotisserie/eris"

	dbpkg "github.com/BrandonDHaskell/cornerstone/internal/db"
	"github.com/BrandonDHaskell/cornerstone/internal/registry/store"
)

type RegistrarStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewRegistrarStore(db *sql.DB, writer *dbpkg.Worker) *RegistrarStore {
	return &RegistrarStore{db: db, writer: writer}
}

func (s *RegistrarStore) CreateRegistrar(ctx context.Context, rec store.RegistrarRecord) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
INSERT INTO registrars(registrar_id, name, organization, registered_by, registered_at_ms)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(registrar_id) DO NOTHING;
`, rec.ID, rec.Name, rec.Organization, rec.RegisteredBy, toMs(rec.RegisteredAt))
		if err != nil {
			return eris.Wrap(err, "sqlite: insert registrar")
		}
		return insertedOne(res, "insert registrar")
	})
}

func (s *RegistrarStore) GetRegistrar(ctx context.Context, id string) (*store.RegistrarRecord, error) {
	var (
		rec store.RegistrarRecord
		at  int64
	)
	err := s.db.QueryRowContext(ctx, `
SELECT registrar_id, name, organization, registered_by, registered_at_ms
FROM registrars
WHERE registrar_id = ?;
`, id).Scan(&rec.ID, &rec.Name, &rec.Organization, &rec.RegisteredBy, &at)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get registrar")
	}
	rec.RegisteredAt = fromMs(at)
	return &rec, nil
}
