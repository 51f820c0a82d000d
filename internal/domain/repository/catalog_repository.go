package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// CatalogRepository lectura de los datos maestros de SKU (los escribe el catálogo, no el libro).
type CatalogRepository interface {
	GetByCode(ctx context.Context, code string) (*entity.SKU, error)
	ListActive(ctx context.Context) ([]*entity.SKU, error)
}
