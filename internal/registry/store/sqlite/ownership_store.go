package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rotisserie/eris"

	dbpkg "github.com/BrandonDHaskell/cornerstone/internal/db"
	"github.com/BrandonDHaskell/cornerstone/internal/registry/store"
)

type OwnershipStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewOwnershipStore(db *sql.DB, writer *dbpkg.Worker) *OwnershipStore {
	return &OwnershipStore{db: db, writer: writer}
}

// PutOwnership replaces any previous row, so verification columns reset to
// their unverified defaults.
func (s *OwnershipStore) PutOwnership(ctx context.Context, rec store.OwnershipRecord) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := requireBuilding(ctx, tx, rec.BuildingID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO building_ownership(
  building_id, owner_name, owner_type, contact_info, ownership_date_ms,
  verified, verified_by, verified_at_ms, verification_hash,
  recorded_by, recorded_at_ms
) VALUES (?, ?, ?, ?, ?, 0, NULL, NULL, NULL, ?, ?)
ON CONFLICT(building_id) DO UPDATE SET
  owner_name        = excluded.owner_name,
  owner_type        = excluded.owner_type,
  contact_info      = excluded.contact_info,
  ownership_date_ms = excluded.ownership_date_ms,
  verified          = 0,
  verified_by       = NULL,
  verified_at_ms    = NULL,
  verification_hash = NULL,
  recorded_by       = excluded.recorded_by,
  recorded_at_ms    = excluded.recorded_at_ms;
`,
			rec.BuildingID, rec.OwnerName, rec.OwnerType, rec.ContactInfo, toMs(rec.OwnershipDate),
			rec.RecordedBy, toMs(rec.RecordedAt),
		); err != nil {
			return eris.Wrap(err, "sqlite: upsert ownership")
		}
		return nil
	})
}

func (s *OwnershipStore) VerifyOwnership(ctx context.Context, buildingID string, v store.Verification) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
UPDATE building_ownership
SET verified          = 1,
    verified_by       = ?,
    verified_at_ms    = ?,
    verification_hash = ?
WHERE building_id = ?;
`, v.VerifiedBy, toMs(v.VerifiedAt), v.DocumentationHash, buildingID)
		if err != nil {
			return eris.Wrap(err, "sqlite: verify ownership")
		}
		n, err := res.RowsAffected()
		if err != nil {
			return eris.Wrap(err, "sqlite: verify ownership rows affected")
		}
		if n == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

func (s *OwnershipStore) GetOwnership(ctx context.Context, buildingID string) (*store.OwnershipRecord, error) {
	var (
		rec        store.OwnershipRecord
		ownedMs    int64
		verified   int
		verifiedBy sql.NullString
		verifiedMs sql.NullInt64
		hash       []byte
		recordedMs int64
	)
	err := s.db.QueryRowContext(ctx, `
SELECT building_id, owner_name, owner_type, contact_info, ownership_date_ms,
       verified, verified_by, verified_at_ms, verification_hash,
       recorded_by, recorded_at_ms
FROM building_ownership
WHERE building_id = ?;
`, buildingID).Scan(
		&rec.BuildingID, &rec.OwnerName, &rec.OwnerType, &rec.ContactInfo, &ownedMs,
		&verified, &verifiedBy, &verifiedMs, &hash,
		&rec.RecordedBy, &recordedMs,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get ownership")
	}

	rec.OwnershipDate = fromMs(ownedMs)
	rec.RecordedAt = fromMs(recordedMs)
	rec.Verified = verified == 1
	if verifiedBy.Valid {
		by := verifiedBy.String
		rec.VerifiedBy = &by
	}
	if verifiedMs.Valid {
		at := fromMs(verifiedMs.Int64)
		rec.VerificationDate = &at
	}
	if len(hash) > 0 {
		rec.VerificationHash = hash
	}
	return &rec, nil
}
