package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	dbpkg "github.com/BrandonDHaskell/cornerstone/internal/db"
	"github.com/BrandonDHaskell/cornerstone/internal/registry/store"
)

type BuildingStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewBuildingStore(db *sql.DB, writer *dbpkg.Worker) *BuildingStore {
	return &BuildingStore{db: db, writer: writer}
}

const buildingColumns = `building_id, name, address, construction_year, architect, architectural_style,
       registered_at_ms, updated_at_ms, registered_by, status`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBuilding(row rowScanner) (store.BuildingRecord, error) {
	var (
		rec                 store.BuildingRecord
		registered, updated int64
	)
	err := row.Scan(
		&rec.ID, &rec.Name, &rec.Address, &rec.ConstructionYear, &rec.Architect, &rec.ArchitecturalStyle,
		&registered, &updated, &rec.RegisteredBy, &rec.Status,
	)
	rec.RegistrationDate = fromMs(registered)
	rec.LastUpdated = fromMs(updated)
	return rec, err
}

func (s *BuildingStore) CreateBuilding(ctx context.Context, rec store.BuildingRecord) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
INSERT INTO buildings(`+buildingColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(building_id) DO NOTHING;
`,
			rec.ID, rec.Name, rec.Address, rec.ConstructionYear, rec.Architect, rec.ArchitecturalStyle,
			toMs(rec.RegistrationDate), toMs(rec.LastUpdated), rec.RegisteredBy, rec.Status,
		)
		if err != nil {
			return eris.Wrap(err, "sqlite: insert building")
		}
		return insertedOne(res, "insert building")
	})
}

func (s *BuildingStore) GetBuilding(ctx context.Context, id string) (*store.BuildingRecord, error) {
	rec, err := scanBuilding(s.db.QueryRowContext(ctx,
		`SELECT `+buildingColumns+` FROM buildings WHERE building_id = ?;`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get building")
	}
	return &rec, nil
}

func (s *BuildingStore) UpdateBuildingStatus(ctx context.Context, id, status string, at time.Time) (string, error) {
	var prev string
	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `SELECT status FROM buildings WHERE building_id = ?;`, id).Scan(&prev)
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrNotFound
		}
		if err != nil {
			return eris.Wrap(err, "sqlite: read building status")
		}

		if _, err := tx.ExecContext(ctx, `
UPDATE buildings
SET status        = ?,
    updated_at_ms = ?
WHERE building_id = ?;
`, status, toMs(at), id); err != nil {
			return eris.Wrap(err, "sqlite: update building status")
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return prev, nil
}

func (s *BuildingStore) ListBuildings(ctx context.Context, f store.BuildingFilter) ([]store.BuildingRecord, error) {
	var (
		q    strings.Builder
		args []any
	)
	q.WriteString(`SELECT ` + buildingColumns + ` FROM buildings`)
	if f.Status != "" {
		q.WriteString(` WHERE status = ?`)
		args = append(args, f.Status)
	}
	q.WriteString(` ORDER BY building_id`)
	if f.Limit > 0 || f.Offset > 0 {
		limit := f.Limit
		if limit <= 0 {
			limit = -1
		}
		q.WriteString(` LIMIT ? OFFSET ?`)
		args = append(args, limit, f.Offset)
	}

	rows, err := s.db.QueryContext(ctx, q.String(), args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list buildings")
	}
	defer rows.Close()

	out := make([]store.BuildingRecord, 0)
	for rows.Next() {
		rec, err := scanBuilding(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan building")
		}
		out = append(out, rec)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list buildings")
}
