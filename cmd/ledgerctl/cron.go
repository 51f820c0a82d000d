package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jhoicas/inventario-ledger/internal/bootstrap"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/scheduler"
)

var cronCmd = &cobra.Command{
	Use:   "cron:start",
	Short: "Arranca el planificador de tareas periódicas (conciliación) hasta Ctrl+C",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withContainer(cmd, func(ctx context.Context, c *bootstrap.Container) error {
			if c.Config.Cron.ReconcileSchedule == "" {
				return fmt.Errorf("RECONCILE_SCHEDULE vacío: no hay tareas que programar")
			}
			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			s := scheduler.New(c.Log.Component("scheduler"))
			if err := s.Add(ctx, bootstrap.ReconcileJob(c)); err != nil {
				return err
			}
			s.Start()
			fmt.Fprintf(cmd.OutOrStdout(), "planificador iniciado (%s). Ctrl+C para salir.\n", c.Config.Cron.ReconcileSchedule)
			<-ctx.Done()
			s.Stop(context.Background())
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(cronCmd)
}
