package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rotisserie/eris"

	"github.com/BrandonDHaskell/cornerstone/internal/registry/store"
)

// requireBuilding returns store.ErrNotFound unless a buildings row exists for
// buildingID.  Child tables reference buildings, so every child insert runs
// this first inside the same transaction.
func requireBuilding(ctx context.Context, tx *sql.Tx, buildingID string) error {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM buildings WHERE building_id = ?;`, buildingID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	if err != nil {
		return eris.Wrapf(err, "sqlite: lookup building %s", buildingID)
	}
	return nil
}

// insertedOne maps an INSERT ... ON CONFLICT DO NOTHING result onto
// store.ErrAlreadyExists.
func insertedOne(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrapf(err, "sqlite: %s rows affected", what)
	}
	if n == 0 {
		return store.ErrAlreadyExists
	}
	return nil
}
