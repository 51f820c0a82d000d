package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/inventario-ledger/internal/application/catalog"
	"github.com/jhoicas/inventario-ledger/internal/bootstrap"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/xlsx"
)

var importFile string

var catalogImportCmd = &cobra.Command{
	Use:   "catalog:import",
	Short: "Carga bodegas, SKUs y tramos de precio desde un .xlsx (hojas SKUs, Bodegas, Precios)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		f, err := os.Open(importFile)
		if err != nil {
			return fmt.Errorf("abrir %s: %w", importFile, err)
		}
		defer f.Close()

		data, err := xlsx.ReadCatalog(f)
		if err != nil {
			return err
		}
		return withContainer(cmd, func(ctx context.Context, c *bootstrap.Container) error {
			res, err := c.CatalogImport.Import(ctx, catalog.ImportInput{
				Warehouses: data.Warehouses,
				SKUs:       data.SKUs,
				PriceTiers: data.PriceTiers,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "bodegas=%d skus=%d tramos=%d\n", res.Warehouses, res.SKUs, res.PriceTiers)
			return nil
		})
	},
}

func init() {
	catalogImportCmd.Flags().StringVarP(&importFile, "file", "f", "", "ruta del archivo .xlsx")
	_ = catalogImportCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(catalogImportCmd)
}
