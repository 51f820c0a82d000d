package inventory

import (
	"context"
	"errors"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// KeyLocker serializa el ciclo leer-calcular-escribir de una clave (sku, bodega).
// Lock devuelve la función que libera el turno; claves distintas no se bloquean entre sí.
type KeyLocker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// RecorderMetrics recibe los eventos del registrador de movimientos.
type RecorderMetrics interface {
	MovementRecorded(t entity.MovementType)
	MovementRejected(t entity.MovementType, reason string)
	ConflictRetried()
}

// ReconcileMetrics recibe el resultado de cada conciliación.
type ReconcileMetrics interface {
	ReconcileFinished(findings int)
}

type nopMetrics struct{}

func (nopMetrics) MovementRecorded(entity.MovementType)         {}
func (nopMetrics) MovementRejected(entity.MovementType, string) {}
func (nopMetrics) ConflictRetried()                             {}
func (nopMetrics) ReconcileFinished(int)                        {}

// errStopScan corta un Scan sin reportar error al llamador.
var errStopScan = errors.New("scan detenido")
