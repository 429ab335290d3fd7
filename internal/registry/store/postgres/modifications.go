package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/BrandonDHaskell/cornerstone/internal/registry/store"
)

const modificationColumns = `building_id, modification_id, modification_type, description, performed_at,
       performed_by, documentation_hash, recorded_by, recorded_at`

func scanModification(row pgx.Row) (store.ModificationRecord, error) {
	var rec store.ModificationRecord
	err := row.Scan(
		&rec.BuildingID, &rec.ModificationID, &rec.ModificationType, &rec.Description, &rec.Date,
		&rec.PerformedBy, &rec.DocumentationHash, &rec.RecordedBy, &rec.RecordedAt,
	)
	return rec, err
}

// AppendModification holds the building row lock while it reads the current
// maximum id, so concurrent appends for one building queue behind each other.
func (s *Store) AppendModification(ctx context.Context, rec store.ModificationRecord) (uint64, error) {
	var id uint64
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		if err := requireBuilding(ctx, tx, rec.BuildingID); err != nil {
			return err
		}
		if err := tx.QueryRow(ctx, `
SELECT COALESCE(MAX(modification_id), 0) + 1
FROM building_modifications
WHERE building_id = $1`, rec.BuildingID).Scan(&id); err != nil {
			return eris.Wrap(err, "postgres: next modification id")
		}
		if _, err := tx.Exec(ctx, `
INSERT INTO building_modifications (`+modificationColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			rec.BuildingID, id, rec.ModificationType, rec.Description, rec.Date.UTC(),
			rec.PerformedBy, rec.DocumentationHash, rec.RecordedBy, rec.RecordedAt.UTC(),
		); err != nil {
			return eris.Wrap(err, "postgres: insert modification")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) GetModification(ctx context.Context, buildingID string, modificationID uint64) (*store.ModificationRecord, error) {
	rec, err := scanModification(s.pool.QueryRow(ctx, `
SELECT `+modificationColumns+`
FROM building_modifications
WHERE building_id = $1 AND modification_id = $2`, buildingID, modificationID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get modification")
	}
	return &rec, nil
}

func (s *Store) ListModifications(ctx context.Context, buildingID string) ([]store.ModificationRecord, error) {
	rows, err := s.pool.Query(ctx, `
SELECT `+modificationColumns+`
FROM building_modifications
WHERE building_id = $1
ORDER BY modification_id`, buildingID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list modifications")
	}
	defer rows.Close()

	out := make([]store.ModificationRecord, 0)
	for rows.Next() {
		rec, err := scanModification(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan modification")
		}
		out = append(out, rec)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list modifications")
}
