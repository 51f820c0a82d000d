package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.SupplierPriceRepository = (*SupplierPriceRepo)(nil)

// SupplierPriceRepo tramos de precio por volumen sobre PostgreSQL.
type SupplierPriceRepo struct {
	pool *pgxpool.Pool
}

// NewSupplierPriceRepository construye el adaptador.
func NewSupplierPriceRepository(pool *pgxpool.Pool) *SupplierPriceRepo {
	return &SupplierPriceRepo{pool: pool}
}

// Upsert crea o reemplaza el precio de un tramo.
func (r *SupplierPriceRepo) Upsert(ctx context.Context, t entity.PriceTier) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO supplier_price_tiers (supplier_id, sku, min_qty, unit_price)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (supplier_id, sku, min_qty) DO UPDATE SET unit_price = EXCLUDED.unit_price`,
		t.SupplierID, t.SKU, t.MinQty, t.UnitPrice)
	if err != nil {
		return fmt.Errorf("upsert price tier: %w", err)
	}
	return nil
}

// Tiers tramos del proveedor para el SKU.
func (r *SupplierPriceRepo) Tiers(ctx context.Context, supplierID, sku string) ([]entity.PriceTier, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT supplier_id, sku, min_qty, unit_price
		FROM supplier_price_tiers
		WHERE supplier_id = $1 AND sku = $2
		ORDER BY min_qty`, supplierID, sku)
	if err != nil {
		return nil, fmt.Errorf("list price tiers: %w", err)
	}
	defer rows.Close()
	var tiers []entity.PriceTier
	for rows.Next() {
		var t entity.PriceTier
		if err := rows.Scan(&t.SupplierID, &t.SKU, &t.MinQty, &t.UnitPrice); err != nil {
			return nil, err
		}
		tiers = append(tiers, t)
	}
	return tiers, rows.Err()
}
