package entity

import "time"

// BatchBalance cantidad por lote derivada del libro (vista materializada, nunca se muta directamente).
type BatchBalance struct {
	SKU         string
	WarehouseID string
	BatchNumber string
	Quantity    int64
	ExpiryDate  *time.Time
}
