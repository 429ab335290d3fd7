package db_test

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandonDHaskell/cornerstone/internal/db"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	name := "dbtest_" + strings.ReplaceAll(t.Name(), "/", "_")
	conn, err := db.OpenDSN(context.Background(), db.MemoryDSN(name))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestMigrate_Idempotent(t *testing.T) {
	conn := openMemory(t)

	require.NoError(t, db.Migrate(context.Background(), conn))

	var n int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&n))
	assert.Equal(t, 1, n)

	for _, table := range []string{
		"registrars", "buildings", "building_ownership", "historical_designations",
		"building_features", "building_modifications", "building_status_events",
	} {
		var name string
		err := conn.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		assert.NoError(t, err, "table %s", table)
	}
}

func TestWorker_CommitsAndRollsBack(t *testing.T) {
	conn := openMemory(t)
	w := db.NewWorker(conn)
	defer w.Close()
	ctx := context.Background()

	err := w.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO registrars VALUES ('r-1','A','Org','x',1)`)
		return err
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = w.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO registrars VALUES ('r-2','B','Org','x',1)`); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var n int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM registrars`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestWorker_SerializesWriters(t *testing.T) {
	conn := openMemory(t)
	w := db.NewWorker(conn)
	defer w.Close()
	ctx := context.Background()

	_, err := conn.Exec(`CREATE TABLE counter (n INTEGER NOT NULL)`)
	require.NoError(t, err)
	_, err = conn.Exec(`INSERT INTO counter VALUES (0)`)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := w.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
				var n int
				if err := tx.QueryRowContext(ctx, `SELECT n FROM counter`).Scan(&n); err != nil {
					return err
				}
				_, err := tx.ExecContext(ctx, `UPDATE counter SET n = ?`, n+1)
				return err
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var n int
	require.NoError(t, conn.QueryRow(`SELECT n FROM counter`).Scan(&n))
	assert.Equal(t, 20, n)
}

func TestWorker_DoAfterClose(t *testing.T) {
	conn := openMemory(t)
	w := db.NewWorker(conn)
	w.Close()
	w.Close()

	err := w.Do(context.Background(), func(context.Context, *sql.Tx) error { return nil })
	assert.ErrorIs(t, err, db.ErrWorkerClosed)
}

func TestSeedDev_Repeatable(t *testing.T) {
	conn := openMemory(t)
	ctx := context.Background()
	opt := db.SeedDevOptions{Now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}

	require.NoError(t, db.SeedDev(ctx, conn, opt))
	require.NoError(t, db.SeedDev(ctx, conn, opt))

	var status, by string
	require.NoError(t, conn.QueryRow(
		`SELECT status, registered_by FROM buildings WHERE building_id = 'building-001'`,
	).Scan(&status, &by))
	assert.Equal(t, "active", status)
	assert.Equal(t, "registrar-dev", by)
}

func TestOpen_CreatesFile(t *testing.T) {
	path := t.TempDir() + "/nested/cornerstone.db"
	conn, err := db.Open(context.Background(), db.Config{Path: path})
	require.NoError(t, err)
	defer conn.Close()
	assert.NoError(t, conn.Ping())
}
