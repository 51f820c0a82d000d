// ledgerctl tareas operativas del libro de stock: migraciones, conciliación, carga del
// catálogo y emisión de tokens de servicio.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
