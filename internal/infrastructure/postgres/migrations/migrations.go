// Package migrations contiene el esquema SQL (formato goose) embebido en el binario.
package migrations

import "embed"

// FS migraciones en orden de versión.
//
//go:embed *.sql
var FS embed.FS
