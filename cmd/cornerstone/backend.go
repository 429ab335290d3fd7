package main

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/BrandonDHaskell/cornerstone/internal/archive"
	archives3 "github.com/BrandonDHaskell/cornerstone/internal/archive/s3"
	"github.com/BrandonDHaskell/cornerstone/internal/config"
	"github.com/BrandonDHaskell/cornerstone/internal/db"
	"github.com/BrandonDHaskell/cornerstone/internal/registry/store"
	"github.com/BrandonDHaskell/cornerstone/internal/registry/store/memory"
	"github.com/BrandonDHaskell/cornerstone/internal/registry/store/postgres"
	"github.com/BrandonDHaskell/cornerstone/internal/registry/store/sqlite"
)

// backend is an opened record store plus what the transports need to
// report on it.
type backend struct {
	store store.Backend
	sqlDB *sql.DB // sqlite only
	ready func(context.Context) error
	close func()
}

func openBackend(ctx context.Context, c *config.Config) (*backend, error) {
	switch c.Store.Driver {
	case "memory":
		return &backend{
			store: memory.New(),
			ready: func(context.Context) error { return nil },
			close: func() {},
		}, nil

	case "sqlite":
		conn, err := db.Open(ctx, db.Config{Path: c.Store.SQLitePath, Env: c.Env})
		if err != nil {
			return nil, err
		}
		writer := db.NewWorker(conn)
		return &backend{
			store: sqlite.New(conn, writer),
			sqlDB: conn,
			ready: conn.PingContext,
			close: func() {
				writer.Close()
				if err := conn.Close(); err != nil {
					zap.L().Warn("close sqlite", zap.Error(err))
				}
			},
		}, nil

	case "postgres":
		pool, err := postgres.Connect(ctx, c.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		st := postgres.New(pool)
		return &backend{
			store: st,
			ready: st.Ping,
			close: pool.Close,
		}, nil
	}
	return nil, eris.Errorf("unknown store driver %q", c.Store.Driver)
}

func openArchive(ctx context.Context, c config.ArchiveConfig) (archive.Store, error) {
	switch c.Driver {
	case "", "memory":
		return archive.NewMemory(), nil
	case "s3":
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return archives3.New(ctx, archives3.Config{
			Bucket:    c.S3Bucket,
			Region:    c.S3Region,
			Endpoint:  c.S3Endpoint,
			PathStyle: c.S3PathStyle,
			Prefix:    c.S3Prefix,
		})
	}
	return nil, eris.Errorf("unknown archive driver %q", c.Driver)
}
