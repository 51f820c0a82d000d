package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// BalanceResolver deriva el saldo de un SKU desde el libro: el BalanceQuantity del último
// movimiento de cada bodega. Nunca suma cantidades (eso contaría dos veces).
type BalanceResolver struct {
	ledger repository.LedgerRepository
}

// NewBalanceResolver construye el resolvedor.
func NewBalanceResolver(ledger repository.LedgerRepository) *BalanceResolver {
	return &BalanceResolver{ledger: ledger}
}

// CurrentBalance saldo de (sku, bodega); 0 si no hay movimientos.
func (r *BalanceResolver) CurrentBalance(ctx context.Context, sku, warehouseID string) (int64, error) {
	latest, err := r.ledger.Latest(ctx, sku, warehouseID)
	if err != nil {
		return 0, fmt.Errorf("saldo actual %s@%s: %w", sku, warehouseID, err)
	}
	if latest == nil {
		return 0, nil
	}
	return latest.BalanceQuantity, nil
}

// BalancesBySKU saldo vigente en cada bodega con movimientos del SKU.
func (r *BalanceResolver) BalancesBySKU(ctx context.Context, sku string) (map[string]int64, error) {
	rows, err := r.ledger.LatestPerWarehouse(ctx, sku)
	if err != nil {
		return nil, fmt.Errorf("saldos por bodega %s: %w", sku, err)
	}
	out := make(map[string]int64, len(rows))
	for _, m := range rows {
		out[m.WarehouseID] = m.BalanceQuantity
	}
	return out, nil
}

// TotalBalance suma el último saldo de cada bodega.
func (r *BalanceResolver) TotalBalance(ctx context.Context, sku string) (int64, error) {
	byWarehouse, err := r.BalancesBySKU(ctx, sku)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, qty := range byWarehouse {
		total += qty
	}
	return total, nil
}

// Balance saldo en la bodega indicada, o total si warehouseID es vacío.
func (r *BalanceResolver) Balance(ctx context.Context, sku, warehouseID string) (int64, error) {
	if warehouseID == "" {
		return r.TotalBalance(ctx, sku)
	}
	return r.CurrentBalance(ctx, sku, warehouseID)
}
