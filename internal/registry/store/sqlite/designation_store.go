package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rotisserie/eris"

	dbpkg "github.com/BrandonDHaskell/cornerstone/internal/db"
	"github.com/BrandonDHaskell/cornerstone/internal/registry/store"
)

type DesignationStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewDesignationStore(db *sql.DB, writer *dbpkg.Worker) *DesignationStore {
	return &DesignationStore{db: db, writer: writer}
}

const designationColumns = `building_id, designation_id, designation_type, designating_authority,
       designation_date_ms, criteria, documentation_hash, status`

func scanDesignation(row rowScanner) (store.DesignationRecord, error) {
	var (
		rec store.DesignationRecord
		ms  int64
	)
	err := row.Scan(
		&rec.BuildingID, &rec.DesignationID, &rec.DesignationType, &rec.DesignatingAuthority,
		&ms, &rec.Criteria, &rec.DocumentationHash, &rec.Status,
	)
	rec.DesignationDate = fromMs(ms)
	return rec, err
}

func (s *DesignationStore) AddDesignation(ctx context.Context, rec store.DesignationRecord) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := requireBuilding(ctx, tx, rec.BuildingID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `
INSERT INTO historical_designations(`+designationColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(building_id, designation_id) DO NOTHING;
`,
			rec.BuildingID, rec.DesignationID, rec.DesignationType, rec.DesignatingAuthority,
			toMs(rec.DesignationDate), rec.Criteria, rec.DocumentationHash, rec.Status,
		)
		if err != nil {
			return eris.Wrap(err, "sqlite: insert designation")
		}
		return insertedOne(res, "insert designation")
	})
}

func (s *DesignationStore) GetDesignation(ctx context.Context, buildingID, designationID string) (*store.DesignationRecord, error) {
	rec, err := scanDesignation(s.db.QueryRowContext(ctx, `
SELECT `+designationColumns+`
FROM historical_designations
WHERE building_id = ? AND designation_id = ?;
`, buildingID, designationID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get designation")
	}
	return &rec, nil
}

func (s *DesignationStore) ListDesignations(ctx context.Context, buildingID string) ([]store.DesignationRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT `+designationColumns+`
FROM historical_designations
WHERE building_id = ?
ORDER BY designation_id;
`, buildingID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list designations")
	}
	defer rows.Close()

	out := make([]store.DesignationRecord, 0)
	for rows.Next() {
		rec, err := scanDesignation(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan designation")
		}
		out = append(out, rec)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list designations")
}
