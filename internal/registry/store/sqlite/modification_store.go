package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rotisserie/eris"

	dbpkg "github.com/BrandonDHaskell/cornerstone/internal/db"
	"github.com/BrandonDHaskell/cornerstone/internal/registry/store"
)

type ModificationStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewModificationStore(db *sql.DB, writer *dbpkg.Worker) *ModificationStore {
	return &ModificationStore{db: db, writer: writer}
}

const modificationColumns = `building_id, modification_id, modification_type, description, performed_at_ms,
       performed_by, documentation_hash, recorded_by, recorded_at_ms`

func scanModification(row rowScanner) (store.ModificationRecord, error) {
	var (
		rec                   store.ModificationRecord
		performedMs, recorded int64
	)
	err := row.Scan(
		&rec.BuildingID, &rec.ModificationID, &rec.ModificationType, &rec.Description, &performedMs,
		&rec.PerformedBy, &rec.DocumentationHash, &rec.RecordedBy, &recorded,
	)
	rec.Date = fromMs(performedMs)
	rec.RecordedAt = fromMs(recorded)
	return rec, err
}

// AppendModification reads the current maximum id and inserts max+1 in the
// same writer transaction, so ids stay dense per building.
func (s *ModificationStore) AppendModification(ctx context.Context, rec store.ModificationRecord) (uint64, error) {
	var id uint64
	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := requireBuilding(ctx, tx, rec.BuildingID); err != nil {
			return err
		}
		if err := tx.QueryRowContext(ctx, `
SELECT COALESCE(MAX(modification_id), 0) + 1
FROM building_modifications
WHERE building_id = ?;
`, rec.BuildingID).Scan(&id); err != nil {
			return eris.Wrap(err, "sqlite: next modification id")
		}

		if _, err := tx.ExecContext(ctx, `
INSERT INTO building_modifications(`+modificationColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
`,
			rec.BuildingID, id, rec.ModificationType, rec.Description, toMs(rec.Date),
			rec.PerformedBy, rec.DocumentationHash, rec.RecordedBy, toMs(rec.RecordedAt),
		); err != nil {
			return eris.Wrap(err, "sqlite: insert modification")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *ModificationStore) GetModification(ctx context.Context, buildingID string, modificationID uint64) (*store.ModificationRecord, error) {
	rec, err := scanModification(s.db.QueryRowContext(ctx, `
SELECT `+modificationColumns+`
FROM building_modifications
WHERE building_id = ? AND modification_id = ?;
`, buildingID, modificationID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get modification")
	}
	return &rec, nil
}

func (s *ModificationStore) ListModifications(ctx context.Context, buildingID string) ([]store.ModificationRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT `+modificationColumns+`
FROM building_modifications
WHERE building_id = ?
ORDER BY modification_id;
`, buildingID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list modifications")
	}
	defer rows.Close()

	out := make([]store.ModificationRecord, 0)
	for rows.Next() {
		rec, err := scanModification(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan modification")
		}
		out = append(out, rec)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list modifications")
}
