package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/BrandonDHaskell/cornerstone/internal/registry/store"
)

const buildingColumns = `building_id, name, address, construction_year, architect, architectural_style,
       registered_at, last_updated, registered_by, status`

func scanBuilding(row pgx.Row) (store.BuildingRecord, error) {
	var rec store.BuildingRecord
	err := row.Scan(
		&rec.ID, &rec.Name, &rec.Address, &rec.ConstructionYear, &rec.Architect, &rec.ArchitecturalStyle,
		&rec.RegistrationDate, &rec.LastUpdated, &rec.RegisteredBy, &rec.Status,
	)
	return rec, err
}

func (s *Store) CreateBuilding(ctx context.Context, rec store.BuildingRecord) error {
	tag, err := s.pool.Exec(ctx, `
INSERT INTO buildings (`+buildingColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (building_id) DO NOTHING`,
		rec.ID, rec.Name, rec.Address, rec.ConstructionYear, rec.Architect, rec.ArchitecturalStyle,
		rec.RegistrationDate.UTC(), rec.LastUpdated.UTC(), rec.RegisteredBy, rec.Status,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: insert building")
	}
	return insertedOne(tag)
}

func (s *Store) GetBuilding(ctx context.Context, id string) (*store.BuildingRecord, error) {
	rec, err := scanBuilding(s.pool.QueryRow(ctx,
		`SELECT `+buildingColumns+` FROM buildings WHERE building_id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get building")
	}
	return &rec, nil
}

// UpdateBuildingStatus locks the row in a sub-select so the previous status
// and the update are read and written atomically.
func (s *Store) UpdateBuildingStatus(ctx context.Context, id, status string, at time.Time) (string, error) {
	var prev string
	err := s.pool.QueryRow(ctx, `
UPDATE buildings AS b
SET status = $2, last_updated = $3
FROM (SELECT building_id, status FROM buildings WHERE building_id = $1 FOR UPDATE) AS prev
WHERE b.building_id = prev.building_id
RETURNING prev.status`, id, status, at.UTC()).Scan(&prev)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", eris.Wrap(err, "postgres: update building status")
	}
	return prev, nil
}

func (s *Store) ListBuildings(ctx context.Context, f store.BuildingFilter) ([]store.BuildingRecord, error) {
	var limit any
	if f.Limit > 0 {
		limit = f.Limit
	}
	rows, err := s.pool.Query(ctx, `
SELECT `+buildingColumns+`
FROM buildings
WHERE ($1 = '' OR status = $1)
ORDER BY building_id
LIMIT $2 OFFSET $3`, f.Status, limit, f.Offset)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list buildings")
	}
	defer rows.Close()

	out := make([]store.BuildingRecord, 0)
	for rows.Next() {
		rec, err := scanBuilding(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan building")
		}
		out = append(out, rec)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list buildings")
}
