package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

const skuColumns = `code, name, min_stock, max_stock, safety_stock, lead_time_days, unit_cost,
	is_active, batch_tracked, preferred_supplier_id, created_at, updated_at`

// CatalogRepo lectura de SKUs sobre PostgreSQL. unit_cost es NUMERIC (pgx-shopspring-decimal).
type CatalogRepo struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository construye el adaptador.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepo {
	return &CatalogRepo{pool: pool}
}

// Upsert crea o actualiza un SKU (importación de datos maestros).
func (r *CatalogRepo) Upsert(ctx context.Context, s *entity.SKU) error {
	query := `
		INSERT INTO skus (code, name, min_stock, max_stock, safety_stock, lead_time_days, unit_cost,
			is_active, batch_tracked, preferred_supplier_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name, min_stock = EXCLUDED.min_stock, max_stock = EXCLUDED.max_stock,
			safety_stock = EXCLUDED.safety_stock, lead_time_days = EXCLUDED.lead_time_days,
			unit_cost = EXCLUDED.unit_cost, is_active = EXCLUDED.is_active,
			batch_tracked = EXCLUDED.batch_tracked, preferred_supplier_id = EXCLUDED.preferred_supplier_id,
			updated_at = now()`
	_, err := r.pool.Exec(ctx, query,
		s.Code, s.Name, s.MinStock, s.MaxStock, s.SafetyStock, s.LeadTimeDays, s.UnitCost,
		s.IsActive, s.BatchTracked, s.PreferredSupplierID,
	)
	if err != nil {
		return fmt.Errorf("upsert sku: %w", err)
	}
	return nil
}

// GetByCode obtiene un SKU; nil si no existe.
func (r *CatalogRepo) GetByCode(ctx context.Context, code string) (*entity.SKU, error) {
	s, err := scanSKU(r.pool.QueryRow(ctx, `SELECT `+skuColumns+` FROM skus WHERE code = $1`, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sku: %w", err)
	}
	return s, nil
}

// ListActive SKUs activos ordenados por código.
func (r *CatalogRepo) ListActive(ctx context.Context) ([]*entity.SKU, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+skuColumns+` FROM skus WHERE is_active ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list skus: %w", err)
	}
	defer rows.Close()
	var list []*entity.SKU
	for rows.Next() {
		s, err := scanSKU(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanSKU(row rowScanner) (*entity.SKU, error) {
	var s entity.SKU
	err := row.Scan(
		&s.Code, &s.Name, &s.MinStock, &s.MaxStock, &s.SafetyStock, &s.LeadTimeDays, &s.UnitCost,
		&s.IsActive, &s.BatchTracked, &s.PreferredSupplierID, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
