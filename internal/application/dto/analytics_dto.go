package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── Query parameters ──────────────────────────────────────────────────────────

// TurnoverRequest parámetros para GET /api/reports/turnover.
type TurnoverRequest struct {
	SKU    string `query:"sku"`    // vacío = todo el inventario
	Months int    `query:"months"` // ventana hacia atrás (default 12, max 60)
}

// ReportRequest parámetros comunes de los reportes exportables.
type ReportRequest struct {
	WarehouseID string `query:"warehouse_id"`
	Format      string `query:"format" validate:"omitempty,oneof=json xlsx pdf"`
}

// ── ABC ───────────────────────────────────────────────────────────────────────

// ABCItemDTO clasificación de un SKU por valor de consumo anual.
type ABCItemDTO struct {
	SKU               string          `json:"sku"`
	ProductName       string          `json:"product_name"`
	AnnualConsumption int64           `json:"annual_consumption"` // unidades OUTWARD + TRANSFER_OUT en 12 meses
	UnitCost          decimal.Decimal `json:"unit_cost"`
	AnnualValue       decimal.Decimal `json:"annual_value"`   // AnnualConsumption * UnitCost
	ValuePct          decimal.Decimal `json:"value_pct"`      // participación % en el valor total
	CumulativePct     decimal.Decimal `json:"cumulative_pct"` // acumulado descendente
	Class             string          `json:"class"`          // A|B|C
}

// ABCReportDTO respuesta de GET /api/reports/abc.
type ABCReportDTO struct {
	Period     PeriodDTO       `json:"period"`
	TotalValue decimal.Decimal `json:"total_value"`
	Items      []ABCItemDTO    `json:"items"`
	CountA     int             `json:"count_a"`
	CountB     int             `json:"count_b"`
	CountC     int             `json:"count_c"`
}

// PeriodDTO rango de fechas del reporte.
type PeriodDTO struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// ── Rotación ──────────────────────────────────────────────────────────────────

// TurnoverDTO rotación de inventario en una ventana.
type TurnoverDTO struct {
	SKU               string          `json:"sku,omitempty"`
	Months            int             `json:"months"`
	Period            PeriodDTO       `json:"period"`
	COGS              decimal.Decimal `json:"cogs"`                // Σ cantidad OUTWARD * costo unitario
	AvgInventoryValue decimal.Decimal `json:"avg_inventory_value"` // valor actual del stock
	TurnoverRatio     decimal.Decimal `json:"turnover_ratio"`      // COGS / AvgInventoryValue
	DaysInventory     decimal.Decimal `json:"days_inventory"`      // 365 / TurnoverRatio
}

// ── Vencimientos ──────────────────────────────────────────────────────────────

// AgeingItemDTO entrada con fecha de vencimiento.
type AgeingItemDTO struct {
	MovementID      string    `json:"movement_id"`
	SKU             string    `json:"sku"`
	WarehouseID     string    `json:"warehouse_id"`
	BatchNumber     string    `json:"batch_number,omitempty"`
	Quantity        int64     `json:"quantity"`
	ExpiryDate      time.Time `json:"expiry_date"`
	DaysUntilExpiry int       `json:"days_until_expiry"`
	Bucket          string    `json:"bucket"`
}

// AgeingBucketDTO totales de una categoría de vencimiento.
type AgeingBucketDTO struct {
	Bucket   string `json:"bucket"`
	Entries  int    `json:"entries"`
	Quantity int64  `json:"quantity"`
}

// AgeingReportDTO respuesta de GET /api/reports/ageing.
type AgeingReportDTO struct {
	WarehouseID string            `json:"warehouse_id,omitempty"`
	AsOf        time.Time         `json:"as_of"`
	Buckets     []AgeingBucketDTO `json:"buckets"`
	Items       []AgeingItemDTO   `json:"items"`
}

// ── Valor del inventario ──────────────────────────────────────────────────────

// StockValueItemDTO valor del stock de un SKU.
type StockValueItemDTO struct {
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	TotalValue  decimal.Decimal `json:"total_value"`
}

// StockValueReportDTO respuesta de GET /api/reports/stock-value.
type StockValueReportDTO struct {
	WarehouseID string              `json:"warehouse_id,omitempty"`
	AsOf        time.Time           `json:"as_of"`
	TotalValue  decimal.Decimal     `json:"total_value"`
	Items       []StockValueItemDTO `json:"items"`
}
