package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// BatchView deriva las cantidades por lote desde el libro. Es solo lectura: nunca se
// escribe por separado, así no puede divergir del saldo por diseño del flujo de datos.
type BatchView struct {
	ledger   repository.LedgerRepository
	pageSize int
}

// NewBatchView construye la vista; pageSize <= 0 usa el valor del repositorio.
func NewBatchView(ledger repository.LedgerRepository, pageSize int) *BatchView {
	return &BatchView{ledger: ledger, pageSize: pageSize}
}

// Balances suma los efectos con signo de cada lote de (sku, bodega), ordenados por
// vencimiento (los sin fecha al final) y luego por número de lote. Los movimientos sin
// lote se agrupan bajo BatchNumber vacío.
func (v *BatchView) Balances(ctx context.Context, sku, warehouseID string) ([]entity.BatchBalance, error) {
	byBatch := make(map[string]*entity.BatchBalance)
	err := v.ledger.Scan(ctx, repository.MovementFilter{SKU: sku, WarehouseID: warehouseID}, v.pageSize,
		func(page []*entity.StockMovement) error {
			for _, m := range page {
				b, ok := byBatch[m.BatchNumber]
				if !ok {
					b = &entity.BatchBalance{SKU: sku, WarehouseID: warehouseID, BatchNumber: m.BatchNumber}
					byBatch[m.BatchNumber] = b
				}
				b.Quantity += m.SignedQuantity()
				if b.ExpiryDate == nil && m.ExpiryDate != nil && m.Type.IsInbound() {
					d := *m.ExpiryDate
					b.ExpiryDate = &d
				}
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("saldos por lote %s@%s: %w", sku, warehouseID, err)
	}

	out := make([]entity.BatchBalance, 0, len(byBatch))
	for _, b := range byBatch {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].ExpiryDate, out[j].ExpiryDate
		switch {
		case a != nil && b != nil && !a.Equal(*b):
			return a.Before(*b)
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return out[i].BatchNumber < out[j].BatchNumber
	})
	return out, nil
}

// Total suma de todos los lotes; coincide con el saldo del libro si el historial es íntegro.
func (v *BatchView) Total(ctx context.Context, sku, warehouseID string) (int64, error) {
	batches, err := v.Balances(ctx, sku, warehouseID)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, b := range batches {
		total += b.Quantity
	}
	return total, nil
}
