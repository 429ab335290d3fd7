package sqlite_test

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BrandonDHaskell/cornerstone/internal/db"
)

var dbSeq atomic.Int64

// openTestDB returns a migrated in-memory SQLite database unique to the
// test.  It is closed when the test finishes.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := db.MemoryDSN(fmt.Sprintf("test_%s_%d", name, dbSeq.Add(1)))
	conn, err := db.OpenDSN(context.Background(), dsn)
	require.NoError(t, err, "openTestDB")

	t.Cleanup(func() { conn.Close() })
	return conn
}

// newTestWriter returns a db.Worker backed by conn, closed when the test
// finishes.
func newTestWriter(t *testing.T, conn *sql.DB) *db.Worker {
	t.Helper()

	w := db.NewWorker(conn)
	t.Cleanup(func() { w.Close() })
	return w
}
