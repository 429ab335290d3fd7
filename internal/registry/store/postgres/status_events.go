package postgres

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/BrandonDHaskell/cornerstone/internal/registry/store"
)

func (s *Store) RecordStatusEvent(ctx context.Context, rec store.StatusEventRecord) error {
	if rec.ChangedAt.IsZero() {
		rec.ChangedAt = time.Now().UTC()
	}
	if _, err := s.pool.Exec(ctx, `
INSERT INTO building_status_events (
  event_id, building_id, previous_status, status, reason, changed_by, changed_at
) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.EventID, rec.BuildingID, rec.PreviousStatus, rec.Status, rec.Reason, rec.ChangedBy, rec.ChangedAt.UTC(),
	); err != nil {
		return eris.Wrap(err, "postgres: insert status event")
	}
	return nil
}

func (s *Store) ListStatusEvents(ctx context.Context, buildingID string) ([]store.StatusEventRecord, error) {
	rows, err := s.pool.Query(ctx, `
SELECT event_id::text, building_id, previous_status, status, reason, changed_by, changed_at
FROM building_status_events
WHERE building_id = $1
ORDER BY changed_at, seq`, buildingID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list status events")
	}
	defer rows.Close()

	out := make([]store.StatusEventRecord, 0)
	for rows.Next() {
		var rec store.StatusEventRecord
		if err := rows.Scan(
			&rec.EventID, &rec.BuildingID, &rec.PreviousStatus, &rec.Status, &rec.Reason, &rec.ChangedBy, &rec.ChangedAt,
		); err != nil {
			return nil, eris.Wrap(err, "postgres: scan status event")
		}
		out = append(out, rec)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list status events")
}

func (s *Store) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM building_status_events WHERE changed_at < $1`, cutoff.UTC())
	if err != nil {
		return 0, eris.Wrap(err, "postgres: prune status events")
	}
	return tag.RowsAffected(), nil
}
