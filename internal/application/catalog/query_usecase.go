package catalog

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// QueryUseCase consultas del catálogo.
type QueryUseCase struct {
	skus       repository.CatalogRepository
	warehouses repository.WarehouseRepository
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(skus repository.CatalogRepository, warehouses repository.WarehouseRepository) *QueryUseCase {
	return &QueryUseCase{skus: skus, warehouses: warehouses}
}

// ListWarehouses todas las bodegas.
func (uc *QueryUseCase) ListWarehouses(ctx context.Context) ([]dto.WarehouseResponse, error) {
	list, err := uc.warehouses.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar bodegas: %w", err)
	}
	out := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		out = append(out, dto.WarehouseFromEntity(w))
	}
	return out, nil
}

// ListSKUs SKUs activos.
func (uc *QueryUseCase) ListSKUs(ctx context.Context) ([]dto.SKUResponse, error) {
	list, err := uc.skus.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar skus: %w", err)
	}
	out := make([]dto.SKUResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.SKUFromEntity(s))
	}
	return out, nil
}

// GetSKU un SKU por código (activo o no).
func (uc *QueryUseCase) GetSKU(ctx context.Context, code string) (*dto.SKUResponse, error) {
	s, err := uc.skus.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("consultar sku %s: %w", code, err)
	}
	if s == nil {
		return nil, fmt.Errorf("%w: sku %s", domain.ErrNotFound, code)
	}
	out := dto.SKUFromEntity(s)
	return &out, nil
}
