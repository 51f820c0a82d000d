package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// SupplierPriceRepository tramos de precio por volumen de cada proveedor.
type SupplierPriceRepository interface {
	// Tiers devuelve los tramos del proveedor para el SKU (vacío si no define tramos).
	Tiers(ctx context.Context, supplierID, sku string) ([]entity.PriceTier, error)
}
