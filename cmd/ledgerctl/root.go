package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/inventario-ledger/internal/bootstrap"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:           "ledgerctl",
	Short:         "Herramientas operativas del libro de stock",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// loadConfig lee la configuración y arma el logger hacia stderr del comando.
func loadConfig(cmd *cobra.Command) (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.NewWithWriter(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "ledgerctl",
	}, cmd.ErrOrStderr())
	return cfg, log, nil
}

// withContainer ejecuta fn con el contenedor de dependencias y lo cierra al terminar.
func withContainer(cmd *cobra.Command, fn func(ctx context.Context, c *bootstrap.Container) error) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	c, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(ctx, c)
}
