package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SKU datos maestros de un artículo. El núcleo del libro solo los lee
// (los administra el catálogo).
type SKU struct {
	Code                string
	Name                string
	MinStock            int64 // punto de reorden
	MaxStock            int64
	SafetyStock         int64
	LeadTimeDays        int
	UnitCost            decimal.Decimal
	IsActive            bool
	BatchTracked        bool   // maneja lotes: el stock también se calcula por lote
	PreferredSupplierID string // vacío si no tiene proveedor preferido
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
