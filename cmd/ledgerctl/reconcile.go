package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/inventario-ledger/internal/bootstrap"
)

// errInconsistent hace terminar el comando con código distinto de cero.
var errInconsistent = errors.New("el libro tiene inconsistencias")

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Concilia todo el libro (reproducción de saldos y lotes)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withContainer(cmd, func(ctx context.Context, c *bootstrap.Container) error {
			findings, err := c.Reconciler.Run(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(findings) == 0 {
				fmt.Fprintln(out, "libro consistente")
				return nil
			}
			for _, f := range findings {
				fmt.Fprintf(out, "%s\t%s@%s\tmovimiento=%s seq=%d\tlibro=%d calculado=%d\n",
					f.Kind, f.SKU, f.WarehouseID, f.MovementID, f.Seq, f.Stored, f.Expected)
			}
			return fmt.Errorf("%w: %d hallazgos", errInconsistent, len(findings))
		})
	},
}

var (
	verifySKU       string
	verifyWarehouse string
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Reproduce el historial de un (sku, bodega) y compara cada saldo almacenado",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withContainer(cmd, func(ctx context.Context, c *bootstrap.Container) error {
			res, err := c.Reconciler.VerifyReplay(ctx, verifySKU, verifyWarehouse)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s@%s movimientos=%d saldo=%d\n", res.SKU, res.WarehouseID, res.Movements, res.Balance)
			if !res.Consistent() {
				m := res.Mismatch
				fmt.Fprintf(out, "primera diferencia: movimiento=%s seq=%d libro=%d calculado=%d\n", m.MovementID, m.Seq, m.Stored, m.Expected)
				return errInconsistent
			}
			return nil
		})
	},
}

func init() {
	verifyCmd.Flags().StringVar(&verifySKU, "sku", "", "código del SKU")
	verifyCmd.Flags().StringVar(&verifyWarehouse, "warehouse", "", "id de la bodega")
	_ = verifyCmd.MarkFlagRequired("sku")
	_ = verifyCmd.MarkFlagRequired("warehouse")
	rootCmd.AddCommand(reconcileCmd, verifyCmd)
}
