package entity

import "github.com/shopspring/decimal"

// PriceTier precio por volumen de un proveedor: aplica desde MinQty unidades.
type PriceTier struct {
	SupplierID string
	SKU        string
	MinQty     int64
	UnitPrice  decimal.Decimal
}
