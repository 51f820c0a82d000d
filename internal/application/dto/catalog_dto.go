package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// WarehouseResponse salida de una bodega.
type WarehouseResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SKUResponse datos maestros de un SKU.
type SKUResponse struct {
	Code                string          `json:"code"`
	Name                string          `json:"name"`
	MinStock            int64           `json:"min_stock"`
	MaxStock            int64           `json:"max_stock"`
	SafetyStock         int64           `json:"safety_stock"`
	LeadTimeDays        int             `json:"lead_time_days"`
	UnitCost            decimal.Decimal `json:"unit_cost"`
	IsActive            bool            `json:"is_active"`
	BatchTracked        bool            `json:"batch_tracked"`
	PreferredSupplierID string          `json:"preferred_supplier_id,omitempty"`
}

// WarehouseFromEntity convierte una bodega a respuesta.
func WarehouseFromEntity(w *entity.Warehouse) WarehouseResponse {
	return WarehouseResponse{ID: w.ID, Name: w.Name, Address: w.Address, CreatedAt: w.CreatedAt, UpdatedAt: w.UpdatedAt}
}

// SKUFromEntity convierte un SKU a respuesta.
func SKUFromEntity(s *entity.SKU) SKUResponse {
	return SKUResponse{
		Code:                s.Code,
		Name:                s.Name,
		MinStock:            s.MinStock,
		MaxStock:            s.MaxStock,
		SafetyStock:         s.SafetyStock,
		LeadTimeDays:        s.LeadTimeDays,
		UnitCost:            s.UnitCost,
		IsActive:            s.IsActive,
		BatchTracked:        s.BatchTracked,
		PreferredSupplierID: s.PreferredSupplierID,
	}
}
