package inventory

import (
	"fmt"
	"math"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// MaxQuantity magnitud máxima de un movimiento.
const MaxQuantity int64 = 1_000_000_000_000

// BalancePolicy reglas configurables del cálculo de saldo.
type BalancePolicy struct {
	// AllowNegativeAdjustment permite que un ADJUSTMENT deje el saldo en negativo
	// (p. ej. merma conocida antes de un conteo físico).
	AllowNegativeAdjustment bool
}

// NewBalance calcula el saldo resultante de aplicar un movimiento sobre current.
// OUTWARD / TRANSFER_OUT nunca pueden dejar saldo negativo.
func (p BalancePolicy) NewBalance(current int64, t entity.MovementType, quantity int64) (int64, error) {
	effect := t.SignedEffect(quantity)
	if (effect > 0 && current > math.MaxInt64-effect) || (effect < 0 && current < math.MinInt64-effect) {
		return current, fmt.Errorf("%w: el saldo %d desborda con %d", domain.ErrInvalidInput, current, effect)
	}
	next := current + effect
	if next >= 0 {
		return next, nil
	}
	if t.IsOutbound() || (t == entity.MovementAdjustment && !p.AllowNegativeAdjustment) {
		return current, fmt.Errorf("%w: saldo %d, solicitado %d", domain.ErrInsufficientStock, current, abs(quantity))
	}
	return next, nil
}

// ValidateQuantity verifica la magnitud según el tipo: estrictamente positiva salvo en
// ADJUSTMENT, que admite signo pero no cero.
func ValidateQuantity(t entity.MovementType, quantity int64) error {
	if !t.Valid() {
		return fmt.Errorf("%w: tipo de movimiento desconocido %q", domain.ErrInvalidInput, t)
	}
	if quantity > MaxQuantity || quantity < -MaxQuantity {
		return fmt.Errorf("%w: la cantidad supera el máximo %d", domain.ErrInvalidInput, MaxQuantity)
	}
	if t == entity.MovementAdjustment {
		if quantity == 0 {
			return fmt.Errorf("%w: el ajuste no puede ser cero", domain.ErrInvalidInput)
		}
		return nil
	}
	if quantity <= 0 {
		return fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrInvalidInput)
	}
	return nil
}

// ReplayMismatch describe la primera fila cuyo saldo almacenado no coincide con la reproducción.
type ReplayMismatch struct {
	MovementID string
	Seq        int64
	Stored     int64
	Expected   int64
}

// Replayer reproduce desde cero los movimientos de una clave, entregados del más antiguo
// al más reciente, y recuerda la primera fila cuyo saldo almacenado no coincide.
type Replayer struct {
	balance  int64
	count    int
	mismatch *ReplayMismatch
}

// Feed aplica un movimiento. Devuelve false en cuanto encuentra una discrepancia.
func (r *Replayer) Feed(m *entity.StockMovement) bool {
	if r.mismatch != nil {
		return false
	}
	r.balance += m.SignedQuantity()
	r.count++
	if m.BalanceQuantity != r.balance {
		r.mismatch = &ReplayMismatch{
			MovementID: m.ID,
			Seq:        m.Seq,
			Stored:     m.BalanceQuantity,
			Expected:   r.balance,
		}
		return false
	}
	return true
}

// Balance saldo reproducido hasta el momento.
func (r *Replayer) Balance() int64 { return r.balance }

// Count movimientos aplicados.
func (r *Replayer) Count() int { return r.count }

// Mismatch primera discrepancia encontrada o nil.
func (r *Replayer) Mismatch() *ReplayMismatch { return r.mismatch }

// Replay atajo para reproducir un slice completo.
func Replay(movements []*entity.StockMovement) (int64, *ReplayMismatch) {
	var r Replayer
	for _, m := range movements {
		if !r.Feed(m) {
			break
		}
	}
	return r.Balance(), r.Mismatch()
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
