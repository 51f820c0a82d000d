package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// HistoryQuery consulta paginada del historial de un SKU (más reciente primero).
// WarehouseID vacío = todas las bodegas. Cursor vacío = primera página.
type HistoryQuery struct {
	SKU         string
	WarehouseID string
	Limit       int
	Cursor      string
}

// MovementPage página de movimientos; NextCursor vacío indica que no hay más.
type MovementPage struct {
	Movements  []*entity.StockMovement
	NextCursor string
}

// MovementFilter filtro para recorridos de analítica. Los campos vacíos no filtran.
type MovementFilter struct {
	SKU         string
	WarehouseID string
	Types       []entity.MovementType
	From        *time.Time // inclusive
	To          *time.Time // exclusivo
	WithExpiry  bool       // solo movimientos con fecha de vencimiento
	BatchNumber string
}

// LedgerRepository puerto del libro de movimientos (append-only).
// No expone update ni delete: la inmutabilidad la garantiza esta capa.
// Las lecturas pueden ejecutarse en paralelo con Append; una lectura ve o no ve
// una fila, nunca una fila parcial.
type LedgerRepository interface {
	// Append asigna ID, Seq y TransactionDate y persiste el movimiento. Es atómico con la
	// verificación de que el saldo vigente de (sku, bodega) sigue siendo expectedBalance;
	// si cambió devuelve domain.ErrConcurrencyConflict sin escribir nada.
	// Una IdempotencyKey repetida devuelve domain.ErrDuplicate.
	Append(ctx context.Context, movement *entity.StockMovement, expectedBalance int64) error

	// Latest devuelve el movimiento con mayor TransactionDate (desempate por Seq) o nil.
	Latest(ctx context.Context, sku, warehouseID string) (*entity.StockMovement, error)

	// LatestPerWarehouse devuelve el último movimiento de cada bodega con movimientos del SKU.
	LatestPerWarehouse(ctx context.Context, sku string) ([]*entity.StockMovement, error)

	// History devuelve una página del historial, más reciente primero.
	History(ctx context.Context, q HistoryQuery) (MovementPage, error)

	// Scan recorre en páginas de pageSize (orden cronológico) los movimientos que cumplen
	// el filtro. Si fn devuelve error el recorrido se detiene con ese error.
	Scan(ctx context.Context, f MovementFilter, pageSize int, fn func([]*entity.StockMovement) error) error

	// FindByReference lista los movimientos causados por un documento (auditoría).
	FindByReference(ctx context.Context, ref entity.Reference) ([]*entity.StockMovement, error)

	// FindByIdempotencyKey devuelve el movimiento registrado con esa clave o nil.
	FindByIdempotencyKey(ctx context.Context, key string) (*entity.StockMovement, error)

	// Keys lista los pares (sku, bodega) con al menos un movimiento.
	Keys(ctx context.Context) ([]entity.StockKey, error)
}
