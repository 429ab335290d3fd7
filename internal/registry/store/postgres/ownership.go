package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rotisserie/eris"

	"github.com/BrandonDHaskell/cornerstone/internal/registry/store"
)

func (s *Store) PutOwnership(ctx context.Context, rec store.OwnershipRecord) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		if err := requireBuilding(ctx, tx, rec.BuildingID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
INSERT INTO building_ownership (
  building_id, owner_name, owner_type, contact_info, ownership_date,
  verified, verified_by, verified_at, verification_hash, recorded_by, recorded_at
) VALUES ($1, $2, $3, $4, $5, FALSE, NULL, NULL, NULL, $6, $7)
ON CONFLICT (building_id) DO UPDATE SET
  owner_name        = EXCLUDED.owner_name,
  owner_type        = EXCLUDED.owner_type,
  contact_info      = EXCLUDED.contact_info,
  ownership_date    = EXCLUDED.ownership_date,
  verified          = FALSE,
  verified_by       = NULL,
  verified_at       = NULL,
  verification_hash = NULL,
  recorded_by       = EXCLUDED.recorded_by,
  recorded_at       = EXCLUDED.recorded_at`,
			rec.BuildingID, rec.OwnerName, rec.OwnerType, rec.ContactInfo, rec.OwnershipDate.UTC(),
			rec.RecordedBy, rec.RecordedAt.UTC(),
		); err != nil {
			return eris.Wrap(err, "postgres: upsert ownership")
		}
		return nil
	})
}

func (s *Store) VerifyOwnership(ctx context.Context, buildingID string, v store.Verification) error {
	tag, err := s.pool.Exec(ctx, `
UPDATE building_ownership
SET verified = TRUE, verified_by = $2, verified_at = $3, verification_hash = $4
WHERE building_id = $1`, buildingID, v.VerifiedBy, v.VerifiedAt.UTC(), v.DocumentationHash)
	if err != nil {
		return eris.Wrap(err, "postgres: verify ownership")
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) GetOwnership(ctx context.Context, buildingID string) (*store.OwnershipRecord, error) {
	var (
		rec        store.OwnershipRecord
		verifiedBy pgtype.Text
		verifiedAt pgtype.Timestamptz
	)
	err := s.pool.QueryRow(ctx, `
SELECT building_id, owner_name, owner_type, contact_info, ownership_date,
       verified, verified_by, verified_at, verification_hash, recorded_by, recorded_at
FROM building_ownership
WHERE building_id = $1`, buildingID).Scan(
		&rec.BuildingID, &rec.OwnerName, &rec.OwnerType, &rec.ContactInfo, &rec.OwnershipDate,
		&rec.Verified, &verifiedBy, &verifiedAt, &rec.VerificationHash, &rec.RecordedBy, &rec.RecordedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get ownership")
	}
	if verifiedBy.Valid {
		by := verifiedBy.String
		rec.VerifiedBy = &by
	}
	if verifiedAt.Valid {
		at := verifiedAt.Time.UTC()
		rec.VerificationDate = &at
	}
	if len(rec.VerificationHash) == 0 {
		rec.VerificationHash = nil
	}
	return &rec, nil
}
