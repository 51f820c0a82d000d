package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|status|version]",
	Short:     "Aplica o revierte las migraciones de PostgreSQL",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down", "status", "version"},
	RunE: func(cmd *cobra.Command, args []string) error {
		command := "up"
		if len(args) == 1 {
			command = args[0]
		}
		cfg, log, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.Ledger.StoreDriver != "postgres" {
			return fmt.Errorf("migrate requiere STORE_DRIVER=postgres (actual %q)", cfg.Ledger.StoreDriver)
		}
		if err := postgres.Migrate(cmd.Context(), cfg.DB.ConnectionString(), command); err != nil {
			return err
		}
		log.Info().Str("command", command).Msg("migraciones ejecutadas")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
