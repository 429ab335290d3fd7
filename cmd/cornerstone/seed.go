package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BrandonDHaskell/cornerstone/internal/db"
)

var seedRegistrar string

var seedDevCmd = &cobra.Command{
	Use:   "seed-dev",
	Short: "Insert a demo registrar and building into the sqlite store",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Store.Driver != "sqlite" {
			return eris.Errorf("seed supports the sqlite driver, not %q", cfg.Store.Driver)
		}
		be, err := openBackend(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer be.close()

		if err := db.SeedDev(cmd.Context(), be.sqlDB, db.SeedDevOptions{RegistrarID: seedRegistrar}); err != nil {
			return err
		}
		zap.L().Info("seeded dev data", zap.String("registrar", seedRegistrar))
		return nil
	},
}

func init() {
	seedDevCmd.Flags().StringVar(&seedRegistrar, "registrar", "registrar-dev", "registrar id to create")
	rootCmd.AddCommand(seedDevCmd)
}
