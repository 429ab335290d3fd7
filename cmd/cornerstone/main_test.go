package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandonDHaskell/cornerstone/internal/archive"
	"github.com/BrandonDHaskell/cornerstone/internal/config"
	"github.com/BrandonDHaskell/cornerstone/internal/registry/store"
)

func TestRootCommand_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["migrate"])
	assert.True(t, names["seed-dev"])
}

func TestOpenBackend_Memory(t *testing.T) {
	be, err := openBackend(context.Background(), &config.Config{Store: config.StoreConfig{Driver: "memory"}})
	require.NoError(t, err)
	defer be.close()

	assert.NoError(t, be.ready(context.Background()))
	assert.Nil(t, be.sqlDB)
}

func TestOpenBackend_SQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "registry.db")

	be, err := openBackend(ctx, &config.Config{
		Env:   "dev",
		Store: config.StoreConfig{Driver: "sqlite", SQLitePath: path},
	})
	require.NoError(t, err)
	defer be.close()

	require.NoError(t, be.ready(ctx))
	require.NoError(t, be.store.CreateBuilding(ctx, store.BuildingRecord{ID: "b-1", Status: "active"}))
	got, err := be.store.GetBuilding(ctx, "b-1")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestOpenBackend_Unknown(t *testing.T) {
	_, err := openBackend(context.Background(), &config.Config{Store: config.StoreConfig{Driver: "mongo"}})
	assert.Error(t, err)
}

func TestOpenArchive(t *testing.T) {
	st, err := openArchive(context.Background(), config.ArchiveConfig{Driver: "memory"})
	require.NoError(t, err)
	assert.Equal(t, archive.DriverMemory, st.Driver())

	_, err = openArchive(context.Background(), config.ArchiveConfig{Driver: "s3"})
	assert.Error(t, err, "bucket is required")
}
