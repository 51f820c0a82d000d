package entity

import "time"

// MovementType tipo de movimiento del libro de inventario (enum cerrado).
type MovementType string

// Tipos de movimiento de inventario.
const (
	MovementInward      MovementType = "INWARD"       // entrada (recepción de OC)
	MovementOutward     MovementType = "OUTWARD"      // salida (despacho de pedido)
	MovementTransferIn  MovementType = "TRANSFER_IN"  // entrada por traslado
	MovementTransferOut MovementType = "TRANSFER_OUT" // salida por traslado
	MovementAdjustment  MovementType = "ADJUSTMENT"   // ajuste manual, cantidad con signo
)

// MovementTypes lista todos los tipos válidos.
var MovementTypes = []MovementType{
	MovementInward, MovementOutward, MovementTransferIn, MovementTransferOut, MovementAdjustment,
}

// ParseMovementType convierte un string al enum; ok=false si no es un tipo conocido.
func ParseMovementType(s string) (MovementType, bool) {
	t := MovementType(s)
	return t, t.Valid()
}

// Valid indica si el tipo pertenece al enum.
func (t MovementType) Valid() bool {
	switch t {
	case MovementInward, MovementOutward, MovementTransferIn, MovementTransferOut, MovementAdjustment:
		return true
	}
	return false
}

// IsOutbound true para OUTWARD y TRANSFER_OUT (nunca pueden dejar saldo negativo).
func (t MovementType) IsOutbound() bool {
	return t == MovementOutward || t == MovementTransferOut
}

// IsInbound true para INWARD y TRANSFER_IN.
func (t MovementType) IsInbound() bool {
	return t == MovementInward || t == MovementTransferIn
}

// SignedEffect devuelve el efecto con signo de una cantidad sobre el saldo.
// En ADJUSTMENT la cantidad ya trae su signo.
func (t MovementType) SignedEffect(quantity int64) int64 {
	if t.IsOutbound() {
		return -quantity
	}
	return quantity
}

// StockMovement es una fila del libro de inventario. Inmutable una vez creada:
// las correcciones se registran como movimientos compensatorios.
type StockMovement struct {
	ID              string
	Seq             int64 // orden de inserción; desempata TransactionDate
	SKU             string
	WarehouseID     string
	Location        string // pasillo/estante, solo informativo
	Type            MovementType
	Quantity        int64 // magnitud; solo ADJUSTMENT admite signo
	BatchNumber     string
	ExpiryDate      *time.Time
	Reference       Reference
	BalanceQuantity int64 // saldo de (sku, bodega) inmediatamente después del movimiento
	UserID          string
	Remarks         string
	IdempotencyKey  string
	TransactionDate time.Time
	CreatedAt       time.Time
}

// SignedQuantity efecto con signo del movimiento sobre el saldo.
func (m *StockMovement) SignedQuantity() int64 {
	return m.Type.SignedEffect(m.Quantity)
}

// BalanceBefore saldo inmediatamente anterior al movimiento.
func (m *StockMovement) BalanceBefore() int64 {
	return m.BalanceQuantity - m.SignedQuantity()
}

// Key clave de serialización (sku, bodega) del movimiento.
func (m *StockMovement) Key() StockKey {
	return StockKey{SKU: m.SKU, WarehouseID: m.WarehouseID}
}

// StockKey identifica el saldo de un SKU en una bodega.
type StockKey struct {
	SKU         string
	WarehouseID string
}

// String forma canónica usada como nombre de lock.
func (k StockKey) String() string {
	return k.SKU + "@" + k.WarehouseID
}
