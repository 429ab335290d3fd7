package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/BrandonDHaskell/cornerstone/internal/registry/store"
)

const designationColumns = `building_id, designation_id, designation_type, designating_authority,
       designation_date, criteria, documentation_hash, status`

func scanDesignation(row pgx.Row) (store.DesignationRecord, error) {
	var rec store.DesignationRecord
	err := row.Scan(
		&rec.BuildingID, &rec.DesignationID, &rec.DesignationType, &rec.DesignatingAuthority,
		&rec.DesignationDate, &rec.Criteria, &rec.DocumentationHash, &rec.Status,
	)
	return rec, err
}

func (s *Store) AddDesignation(ctx context.Context, rec store.DesignationRecord) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		if err := requireBuilding(ctx, tx, rec.BuildingID); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `
INSERT INTO historical_designations (`+designationColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (building_id, designation_id) DO NOTHING`,
			rec.BuildingID, rec.DesignationID, rec.DesignationType, rec.DesignatingAuthority,
			rec.DesignationDate.UTC(), rec.Criteria, rec.DocumentationHash, rec.Status,
		)
		if err != nil {
			return eris.Wrap(err, "postgres: insert designation")
		}
		return insertedOne(tag)
	})
}

func (s *Store) GetDesignation(ctx context.Context, buildingID, designationID string) (*store.DesignationRecord, error) {
	rec, err := scanDesignation(s.pool.QueryRow(ctx, `
SELECT `+designationColumns+`
FROM historical_designations
WHERE building_id = $1 AND designation_id = $2`, buildingID, designationID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get designation")
	}
	return &rec, nil
}

func (s *Store) ListDesignations(ctx context.Context, buildingID string) ([]store.DesignationRecord, error) {
	rows, err := s.pool.Query(ctx, `
SELECT `+designationColumns+`
FROM historical_designations
WHERE building_id = $1
ORDER BY designation_id`, buildingID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list designations")
	}
	defer rows.Close()

	out := make([]store.DesignationRecord, 0)
	for rows.Next() {
		rec, err := scanDesignation(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan designation")
		}
		out = append(out, rec)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list designations")
}

const featureColumns = `building_id, feature_id, feature_type, description, historical_significance,
       documentation_hash, added_by, added_at`

func scanFeature(row pgx.Row) (store.FeatureRecord, error) {
	var rec store.FeatureRecord
	err := row.Scan(
		&rec.BuildingID, &rec.FeatureID, &rec.FeatureType, &rec.Description, &rec.HistoricalSignificance,
		&rec.DocumentationHash, &rec.AddedBy, &rec.AddedAt,
	)
	return rec, err
}

func (s *Store) AddFeature(ctx context.Context, rec store.FeatureRecord) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		if err := requireBuilding(ctx, tx, rec.BuildingID); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `
INSERT INTO building_features (`+featureColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (building_id, feature_id) DO NOTHING`,
			rec.BuildingID, rec.FeatureID, rec.FeatureType, rec.Description, rec.HistoricalSignificance,
			rec.DocumentationHash, rec.AddedBy, rec.AddedAt.UTC(),
		)
		if err != nil {
			return eris.Wrap(err, "postgres: insert feature")
		}
		return insertedOne(tag)
	})
}

func (s *Store) GetFeature(ctx context.Context, buildingID, featureID string) (*store.FeatureRecord, error) {
	rec, err := scanFeature(s.pool.QueryRow(ctx, `
SELECT `+featureColumns+`
FROM building_features
WHERE building_id = $1 AND feature_id = $2`, buildingID, featureID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get feature")
	}
	return &rec, nil
}

func (s *Store) ListFeatures(ctx context.Context, buildingID string) ([]store.FeatureRecord, error) {
	rows, err := s.pool.Query(ctx, `
SELECT `+featureColumns+`
FROM building_features
WHERE building_id = $1
ORDER BY feature_id`, buildingID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list features")
	}
	defer rows.Close()

	out := make([]store.FeatureRecord, 0)
	for rows.Next() {
		rec, err := scanFeature(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan feature")
		}
		out = append(out, rec)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list features")
}
