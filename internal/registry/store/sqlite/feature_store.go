package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rotisserie/eris"

	dbpkg "github.com/BrandonDHaskell/cornerstone/internal/db"
	"github.com/BrandonDHaskell/cornerstone/internal/registry/store"
)

type FeatureStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewFeatureStore(db *sql.DB, writer *dbpkg.Worker) *FeatureStore {
	return &FeatureStore{db: db, writer: writer}
}

const featureColumns = `building_id, feature_id, feature_type, description, historical_significance,
       documentation_hash, added_by, added_at_ms`

func scanFeature(row rowScanner) (store.FeatureRecord, error) {
	var (
		rec store.FeatureRecord
		ms  int64
	)
	err := row.Scan(
		&rec.BuildingID, &rec.FeatureID, &rec.FeatureType, &rec.Description, &rec.HistoricalSignificance,
		&rec.DocumentationHash, &rec.AddedBy, &ms,
	)
	rec.AddedAt = fromMs(ms)
	return rec, err
}

func (s *FeatureStore) AddFeature(ctx context.Context, rec store.FeatureRecord) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := requireBuilding(ctx, tx, rec.BuildingID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `
INSERT INTO building_features(`+featureColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(building_id, feature_id) DO NOTHING;
`,
			rec.BuildingID, rec.FeatureID, rec.FeatureType, rec.Description, rec.HistoricalSignificance,
			rec.DocumentationHash, rec.AddedBy, toMs(rec.AddedAt),
		)
		if err != nil {
			return eris.Wrap(err, "sqlite: insert feature")
		}
		return insertedOne(res, "insert feature")
	})
}

func (s *FeatureStore) GetFeature(ctx context.Context, buildingID, featureID string) (*store.FeatureRecord, error) {
	rec, err := scanFeature(s.db.QueryRowContext(ctx, `
SELECT `+featureColumns+`
FROM building_features
WHERE building_id = ? AND feature_id = ?;
`, buildingID, featureID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get feature")
	}
	return &rec, nil
}

func (s *FeatureStore) ListFeatures(ctx context.Context, buildingID string) ([]store.FeatureRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT `+featureColumns+`
FROM building_features
WHERE building_id = ?
ORDER BY feature_id;
`, buildingID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list features")
	}
	defer rows.Close()

	out := make([]store.FeatureRecord, 0)
	for rows.Next() {
		rec, err := scanFeature(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan feature")
		}
		out = append(out, rec)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list features")
}
