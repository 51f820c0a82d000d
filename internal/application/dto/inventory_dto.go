package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// RegisterMovementRequest body para POST /api/ledger/movements.
// Quantity es la magnitud; solo en ADJUSTMENT puede ser negativa.
type RegisterMovementRequest struct {
	SKU            string     `json:"sku" validate:"required,max=64"`
	WarehouseID    string     `json:"warehouse_id" validate:"required,max=64"`
	Type           string     `json:"type" validate:"required,oneof=INWARD OUTWARD TRANSFER_IN TRANSFER_OUT ADJUSTMENT"`
	Quantity       int64      `json:"quantity" validate:"required,min=-1000000000000,max=1000000000000"`
	ReferenceType  string     `json:"reference_type" validate:"required,oneof=PO ORDER TRANSFER PR ADJUSTMENT"`
	ReferenceID    string     `json:"reference_id,omitempty" validate:"max=64"`
	Location       string     `json:"location,omitempty" validate:"max=64"`
	BatchNumber    string     `json:"batch_number,omitempty" validate:"max=64"`
	ExpiryDate     *time.Time `json:"expiry_date,omitempty"`
	Remarks        string     `json:"remarks,omitempty" validate:"max=500"`
	IdempotencyKey string     `json:"idempotency_key,omitempty" validate:"max=128"`
}

// MovementResponse fila del libro.
type MovementResponse struct {
	ID              string     `json:"id"`
	SKU             string     `json:"sku"`
	WarehouseID     string     `json:"warehouse_id"`
	Location        string     `json:"location,omitempty"`
	Type            string     `json:"type"`
	Quantity        int64      `json:"quantity"`
	BalanceQuantity int64      `json:"balance_quantity"`
	BatchNumber     string     `json:"batch_number,omitempty"`
	ExpiryDate      *time.Time `json:"expiry_date,omitempty"`
	ReferenceType   string     `json:"reference_type"`
	ReferenceID     string     `json:"reference_id"`
	UserID          string     `json:"user_id,omitempty"`
	Remarks         string     `json:"remarks,omitempty"`
	TransactionDate time.Time  `json:"transaction_date"`
}

// MovementFromEntity convierte una fila del libro a respuesta.
func MovementFromEntity(m *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID:              m.ID,
		SKU:             m.SKU,
		WarehouseID:     m.WarehouseID,
		Location:        m.Location,
		Type:            string(m.Type),
		Quantity:        m.Quantity,
		BalanceQuantity: m.BalanceQuantity,
		BatchNumber:     m.BatchNumber,
		ExpiryDate:      m.ExpiryDate,
		ReferenceType:   string(m.Reference.Type),
		ReferenceID:     m.Reference.ID,
		UserID:          m.UserID,
		Remarks:         m.Remarks,
		TransactionDate: m.TransactionDate,
	}
}

// MovementsFromEntities convierte una lista de filas.
func MovementsFromEntities(ms []*entity.StockMovement) []MovementResponse {
	out := make([]MovementResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, MovementFromEntity(m))
	}
	return out
}

// HistoryRequest query de GET /api/ledger/history.
type HistoryRequest struct {
	SKU         string `query:"sku" validate:"required"`
	WarehouseID string `query:"warehouse_id"`
	Limit       int    `query:"limit" validate:"min=0"`
	Cursor      string `query:"cursor"`
}

// HistoryResponse página del historial; NextCursor vacío cuando no hay más.
type HistoryResponse struct {
	Movements  []MovementResponse `json:"movements"`
	NextCursor string             `json:"next_cursor,omitempty"`
}

// StockResponse saldo de un SKU (total y por bodega).
type StockResponse struct {
	SKU         string           `json:"sku"`
	WarehouseID string           `json:"warehouse_id,omitempty"`
	Balance     int64            `json:"balance"`
	ByWarehouse map[string]int64 `json:"by_warehouse,omitempty"`
}

// BatchBalanceResponse saldo de un lote.
type BatchBalanceResponse struct {
	BatchNumber string     `json:"batch_number"`
	Quantity    int64      `json:"quantity"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
}

// BatchesResponse saldos por lote de (sku, bodega).
type BatchesResponse struct {
	SKU         string                 `json:"sku"`
	WarehouseID string                 `json:"warehouse_id"`
	Total       int64                  `json:"total"`
	Batches     []BatchBalanceResponse `json:"batches"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un SKU en o bajo su punto de reorden.
type ReplenishmentSuggestionDTO struct {
	SKU                string          `json:"sku"`
	ProductName        string          `json:"product_name"`
	WarehouseID        string          `json:"warehouse_id"`
	CurrentStock       int64           `json:"current_stock"`
	ReorderPoint       int64           `json:"reorder_point"` // MinStock
	MaxStock           int64           `json:"max_stock"`
	SafetyStock        int64           `json:"safety_stock"`
	SuggestedOrderQty  int64           `json:"suggested_order_qty"` // max(MaxStock - actual, SafetyStock)
	SupplierID         string          `json:"supplier_id,omitempty"`
	UnitPrice          decimal.Decimal `json:"unit_price"`           // tramo del proveedor o costo del SKU
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitPrice
	Urgency            string          `json:"urgency"`              // URGENT|HIGH|MEDIUM
	LeadTimeDays       int             `json:"lead_time_days"`
	Priority           int             `json:"priority"` // 1 = más urgente
}

// BelowReorderPointDTO SKU en o bajo su punto de reorden en una bodega.
type BelowReorderPointDTO struct {
	SKU          string `json:"sku"`
	ProductName  string `json:"product_name"`
	WarehouseID  string `json:"warehouse_id"`
	CurrentStock int64  `json:"current_stock"`
	ReorderPoint int64  `json:"reorder_point"`
	Deficit      int64  `json:"deficit"` // ReorderPoint - CurrentStock
}

// ReplayResponse resultado de GET /api/ledger/verify.
type ReplayResponse struct {
	SKU         string           `json:"sku"`
	WarehouseID string           `json:"warehouse_id"`
	Movements   int              `json:"movements"`
	Balance     int64            `json:"balance"`
	Consistent  bool             `json:"consistent"`
	Mismatch    *FindingResponse `json:"mismatch,omitempty"`
}

// FindingResponse inconsistencia detectada por la conciliación.
type FindingResponse struct {
	Kind        string `json:"kind"`
	SKU         string `json:"sku"`
	WarehouseID string `json:"warehouse_id"`
	MovementID  string `json:"movement_id,omitempty"`
	Seq         int64  `json:"seq,omitempty"`
	Stored      int64  `json:"stored"`
	Expected    int64  `json:"expected"`
}

// ReconcileResponse resultado de POST /api/ledger/reconcile.
type ReconcileResponse struct {
	Consistent bool              `json:"consistent"`
	Findings   []FindingResponse `json:"findings"`
}
