// Package catalog carga los datos maestros (bodegas, SKUs y tramos de precio) que el
// libro de stock solo lee.
package catalog

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// SKUWriter escritura del catálogo de SKUs.
type SKUWriter interface {
	Upsert(ctx context.Context, s *entity.SKU) error
}

// WarehouseWriter escritura de bodegas.
type WarehouseWriter interface {
	Upsert(ctx context.Context, w *entity.Warehouse) error
}

// PriceTierWriter escritura de tramos de precio.
type PriceTierWriter interface {
	Upsert(ctx context.Context, t entity.PriceTier) error
}

// ImportInput datos a cargar. Los upserts son idempotentes: repetir una carga no duplica nada.
type ImportInput struct {
	Warehouses []*entity.Warehouse
	SKUs       []*entity.SKU
	PriceTiers []entity.PriceTier
}

// ImportResult conteo de registros escritos.
type ImportResult struct {
	Warehouses int `json:"warehouses"`
	SKUs       int `json:"skus"`
	PriceTiers int `json:"price_tiers"`
}

// ImportUseCase valida y escribe los datos maestros.
type ImportUseCase struct {
	skus       SKUWriter
	warehouses WarehouseWriter
	prices     PriceTierWriter
	log        zerolog.Logger
}

// NewImportUseCase construye el caso de uso.
func NewImportUseCase(skus SKUWriter, warehouses WarehouseWriter, prices PriceTierWriter, log zerolog.Logger) *ImportUseCase {
	return &ImportUseCase{skus: skus, warehouses: warehouses, prices: prices, log: log}
}

// Import valida todo antes de escribir; un dato inválido no deja cargas parciales de
// esa ejecución. El orden de escritura es bodegas, SKUs y tramos.
func (uc *ImportUseCase) Import(ctx context.Context, in ImportInput) (*ImportResult, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	for _, w := range in.Warehouses {
		if err := uc.warehouses.Upsert(ctx, w); err != nil {
			return nil, fmt.Errorf("guardar bodega %s: %w", w.ID, err)
		}
	}
	for _, s := range in.SKUs {
		if err := uc.skus.Upsert(ctx, s); err != nil {
			return nil, fmt.Errorf("guardar sku %s: %w", s.Code, err)
		}
	}
	for _, t := range in.PriceTiers {
		if err := uc.prices.Upsert(ctx, t); err != nil {
			return nil, fmt.Errorf("guardar tramo %s/%s: %w", t.SupplierID, t.SKU, err)
		}
	}

	res := &ImportResult{Warehouses: len(in.Warehouses), SKUs: len(in.SKUs), PriceTiers: len(in.PriceTiers)}
	uc.log.Info().
		Int("warehouses", res.Warehouses).
		Int("skus", res.SKUs).
		Int("price_tiers", res.PriceTiers).
		Msg("catálogo importado")
	return res, nil
}

func validate(in ImportInput) error {
	seenWh := make(map[string]bool, len(in.Warehouses))
	for _, w := range in.Warehouses {
		if w.ID == "" || w.Name == "" {
			return fmt.Errorf("%w: bodega sin id o nombre", domain.ErrInvalidInput)
		}
		if seenWh[w.ID] {
			return fmt.Errorf("%w: bodega %s repetida", domain.ErrInvalidInput, w.ID)
		}
		seenWh[w.ID] = true
	}

	seenSKU := make(map[string]bool, len(in.SKUs))
	for _, s := range in.SKUs {
		if s.Code == "" || s.Name == "" {
			return fmt.Errorf("%w: sku sin código o nombre", domain.ErrInvalidInput)
		}
		if seenSKU[s.Code] {
			return fmt.Errorf("%w: sku %s repetido", domain.ErrInvalidInput, s.Code)
		}
		if s.MinStock < 0 || s.MaxStock < 0 || s.SafetyStock < 0 || s.LeadTimeDays < 0 {
			return fmt.Errorf("%w: sku %s con parámetros de reorden negativos", domain.ErrInvalidInput, s.Code)
		}
		if s.UnitCost.IsNegative() {
			return fmt.Errorf("%w: sku %s con costo negativo", domain.ErrInvalidInput, s.Code)
		}
		seenSKU[s.Code] = true
	}

	for _, t := range in.PriceTiers {
		if t.SupplierID == "" || t.SKU == "" {
			return fmt.Errorf("%w: tramo sin proveedor o sku", domain.ErrInvalidInput)
		}
		if t.MinQty <= 0 || !t.UnitPrice.IsPositive() {
			return fmt.Errorf("%w: tramo %s/%s requiere min_qty y precio positivos", domain.ErrInvalidInput, t.SupplierID, t.SKU)
		}
	}
	return nil
}
