package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// ReplenishmentUseCase detecta SKUs en o bajo su punto de reorden y arma la lista de
// reposición con cantidad sugerida, precio del proveedor y urgencia.
type ReplenishmentUseCase struct {
	catalog    repository.CatalogRepository
	warehouses repository.WarehouseRepository
	prices     repository.SupplierPriceRepository
	resolver   *BalanceResolver
	batches    *BatchView
	log        zerolog.Logger
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(
	ledger repository.LedgerRepository,
	catalog repository.CatalogRepository,
	warehouses repository.WarehouseRepository,
	prices repository.SupplierPriceRepository,
	log zerolog.Logger,
	scanPageSize int,
) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{
		catalog:    catalog,
		warehouses: warehouses,
		prices:     prices,
		resolver:   NewBalanceResolver(ledger),
		batches:    NewBatchView(ledger, scanPageSize),
		log:        log,
	}
}

// lowStock SKU por debajo del punto de reorden en una bodega.
type lowStock struct {
	sku         *entity.SKU
	warehouseID string
	current     int64
}

// SKUsBelowReorderPoint SKUs activos con stock actual <= MinStock en la bodega dada, o en
// cada bodega si warehouseID es vacío.
func (uc *ReplenishmentUseCase) SKUsBelowReorderPoint(ctx context.Context, warehouseID string) ([]dto.BelowReorderPointDTO, error) {
	items, err := uc.belowReorderPoint(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BelowReorderPointDTO, 0, len(items))
	for _, it := range items {
		out = append(out, dto.BelowReorderPointDTO{
			SKU:          it.sku.Code,
			ProductName:  it.sku.Name,
			WarehouseID:  it.warehouseID,
			CurrentStock: it.current,
			ReorderPoint: it.sku.MinStock,
			Deficit:      it.sku.MinStock - it.current,
		})
	}
	return out, nil
}

// GenerateSuggestions devuelve la lista de reposición ordenada por urgencia y luego por
// mayor déficit, con Priority 1..n.
func (uc *ReplenishmentUseCase) GenerateSuggestions(ctx context.Context, warehouseID string) ([]dto.ReplenishmentSuggestionDTO, error) {
	items, err := uc.belowReorderPoint(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}

	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(items))
	for _, it := range items {
		qty := domaininv.RecommendedOrderQty(it.sku, it.current)

		var tiers []entity.PriceTier
		if it.sku.PreferredSupplierID != "" {
			tiers, err = uc.prices.Tiers(ctx, it.sku.PreferredSupplierID, it.sku.Code)
			if err != nil {
				return nil, fmt.Errorf("tramos de precio %s: %w", it.sku.Code, err)
			}
		}
		unitPrice := domaininv.UnitPrice(it.sku, tiers, qty)

		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			SKU:                it.sku.Code,
			ProductName:        it.sku.Name,
			WarehouseID:        it.warehouseID,
			CurrentStock:       it.current,
			ReorderPoint:       it.sku.MinStock,
			MaxStock:           it.sku.MaxStock,
			SafetyStock:        it.sku.SafetyStock,
			SuggestedOrderQty:  qty,
			SupplierID:         it.sku.PreferredSupplierID,
			UnitPrice:          unitPrice,
			EstimatedOrderCost: unitPrice.Mul(decimal.NewFromInt(qty)),
			Urgency:            string(domaininv.ClassifyUrgency(it.sku, it.current)),
			LeadTimeDays:       it.sku.LeadTimeDays,
		})
	}

	// Primero la urgencia, luego el mayor déficit; el SKU desempata para un orden estable.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		ra, rb := domaininv.Urgency(a.Urgency).Rank(), domaininv.Urgency(b.Urgency).Rank()
		if ra != rb {
			return ra < rb
		}
		defA, defB := a.ReorderPoint-a.CurrentStock, b.ReorderPoint-b.CurrentStock
		if defA != defB {
			return defA > defB
		}
		if a.SKU != b.SKU {
			return a.SKU < b.SKU
		}
		return a.WarehouseID < b.WarehouseID
	})

	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}

func (uc *ReplenishmentUseCase) belowReorderPoint(ctx context.Context, warehouseID string) ([]lowStock, error) {
	scope, err := uc.scope(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	skus, err := uc.catalog.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar skus activos: %w", err)
	}

	var out []lowStock
	for _, sku := range skus {
		for _, wh := range scope {
			current, err := uc.currentStock(ctx, sku, wh)
			if err != nil {
				return nil, err
			}
			if domaininv.NeedsReorder(sku, current) {
				out = append(out, lowStock{sku: sku, warehouseID: wh, current: current})
			}
		}
	}
	return out, nil
}

// scope bodegas a evaluar.
func (uc *ReplenishmentUseCase) scope(ctx context.Context, warehouseID string) ([]string, error) {
	if warehouseID != "" {
		wh, err := uc.warehouses.GetByID(ctx, warehouseID)
		if err != nil {
			return nil, fmt.Errorf("consultar bodega %s: %w", warehouseID, err)
		}
		if wh == nil {
			return nil, fmt.Errorf("%w: bodega %s", domain.ErrNotFound, warehouseID)
		}
		return []string{warehouseID}, nil
	}
	whs, err := uc.warehouses.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar bodegas: %w", err)
	}
	ids := make([]string, 0, len(whs))
	for _, w := range whs {
		ids = append(ids, w.ID)
	}
	return ids, nil
}

// currentStock saldo del libro. En SKUs con lotes también suma la vista por lote y, si
// difieren, registra la deriva; el libro manda.
func (uc *ReplenishmentUseCase) currentStock(ctx context.Context, sku *entity.SKU, warehouseID string) (int64, error) {
	current, err := uc.resolver.CurrentBalance(ctx, sku.Code, warehouseID)
	if err != nil {
		return 0, err
	}
	if !sku.BatchTracked {
		return current, nil
	}
	batchTotal, err := uc.batches.Total(ctx, sku.Code, warehouseID)
	if err != nil {
		return 0, err
	}
	if batchTotal != current {
		uc.log.Warn().
			Str("sku", sku.Code).
			Str("warehouse_id", warehouseID).
			Int64("ledger", current).
			Int64("batches", batchTotal).
			Msg("saldo por lotes difiere del libro")
	}
	return current, nil
}
