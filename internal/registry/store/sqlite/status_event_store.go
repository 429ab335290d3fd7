package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"

	dbpkg "github.com/BrandonDHaskell/cornerstone/internal/db"
	"github.com/BrandonDHaskell/cornerstone/internal/registry/store"
)

type StatusEventStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewStatusEventStore(db *sql.DB, writer *dbpkg.Worker) *StatusEventStore {
	return &StatusEventStore{db: db, writer: writer}
}

func (s *StatusEventStore) RecordStatusEvent(ctx context.Context, rec store.StatusEventRecord) error {
	if rec.ChangedAt.IsZero() {
		rec.ChangedAt = time.Now().UTC()
	}

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO building_status_events(
  event_id, building_id, previous_status, status, reason, changed_by, changed_at_ms
) VALUES (?, ?, ?, ?, ?, ?, ?);
`,
			rec.EventID, rec.BuildingID, rec.PreviousStatus, rec.Status, rec.Reason,
			rec.ChangedBy, toMs(rec.ChangedAt),
		); err != nil {
			return eris.Wrap(err, "sqlite: insert status event")
		}
		return nil
	})
}

func (s *StatusEventStore) ListStatusEvents(ctx context.Context, buildingID string) ([]store.StatusEventRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT event_id, building_id, previous_status, status, reason, changed_by, changed_at_ms
FROM building_status_events
WHERE building_id = ?
ORDER BY changed_at_ms, seq;
`, buildingID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list status events")
	}
	defer rows.Close()

	out := make([]store.StatusEventRecord, 0)
	for rows.Next() {
		var (
			rec store.StatusEventRecord
			ms  int64
		)
		if err := rows.Scan(
			&rec.EventID, &rec.BuildingID, &rec.PreviousStatus, &rec.Status, &rec.Reason, &rec.ChangedBy, &ms,
		); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan status event")
		}
		rec.ChangedAt = fromMs(ms)
		out = append(out, rec)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list status events")
}

// PruneOlderThan deletes status events whose changed_at_ms is before
// cutoff and returns the number of rows removed.
func (s *StatusEventStore) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM building_status_events WHERE changed_at_ms < ?;`, toMs(cutoff))
		if err != nil {
			return eris.Wrap(err, "sqlite: prune status events")
		}
		deleted, err = res.RowsAffected()
		return err
	})
	return deleted, err
}
