package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"
)

type SeedDevOptions struct {
	// RegistrarID is the dev registrar to create.  Defaults to "registrar-dev".
	RegistrarID string
	Now         time.Time
}

// SeedDev inserts a demo registrar and building.  Running it twice leaves
// the existing rows untouched.
func SeedDev(ctx context.Context, db *sql.DB, opt SeedDevOptions) error {
	if opt.RegistrarID == "" {
		opt.RegistrarID = "registrar-dev"
	}
	if opt.Now.IsZero() {
		opt.Now = time.Now().UTC()
	}
	now := opt.Now.UnixMilli()

	if _, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO registrars(registrar_id, name, organization, registered_by, registered_at_ms)
VALUES (?, 'Dev Registrar', 'Cornerstone Dev', 'seed', ?);`, opt.RegistrarID, now); err != nil {
		return eris.Wrap(err, "db: seed registrar")
	}

	if _, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO buildings(
  building_id, name, address, construction_year, architect, architectural_style,
  registered_at_ms, updated_at_ms, registered_by, status
) VALUES ('building-001', 'Old Town Hall', '123 Main St', 1890, 'John Smith', 'Victorian Gothic', ?, ?, ?, 'active');
`, now, now, opt.RegistrarID); err != nil {
		return eris.Wrap(err, "db: seed building-001")
	}

	return nil
}
