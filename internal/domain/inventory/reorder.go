package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// Urgency prioridad de una sugerencia de reposición.
type Urgency string

const (
	UrgencyUrgent Urgency = "URGENT"
	UrgencyHigh   Urgency = "HIGH"
	UrgencyMedium Urgency = "MEDIUM"
)

// Rank orden numérico (menor = más urgente).
func (u Urgency) Rank() int {
	switch u {
	case UrgencyUrgent:
		return 0
	case UrgencyHigh:
		return 1
	default:
		return 2
	}
}

// NeedsReorder true cuando el stock actual está en o por debajo del punto de reorden.
func NeedsReorder(sku *entity.SKU, current int64) bool {
	return current <= sku.MinStock
}

// RecommendedOrderQty = max(MaxStock - current, SafetyStock).
func RecommendedOrderQty(sku *entity.SKU, current int64) int64 {
	qty := sku.MaxStock - current
	if qty < sku.SafetyStock {
		qty = sku.SafetyStock
	}
	return qty
}

// ClassifyUrgency evalúa en orden: URGENT (sin stock o bajo stock de seguridad),
// HIGH (a la mitad del mínimo o menos), MEDIUM.
func ClassifyUrgency(sku *entity.SKU, current int64) Urgency {
	switch {
	case current == 0 || current <= sku.SafetyStock:
		return UrgencyUrgent
	case 2*current <= sku.MinStock: // current <= MinStock * 0.5
		return UrgencyHigh
	default:
		return UrgencyMedium
	}
}

// PickTier devuelve el tramo con mayor MinQty que no exceda qty: filtra, ordena
// descendente por MinQty y toma el primero. ok=false si ninguno aplica.
func PickTier(tiers []entity.PriceTier, qty int64) (entity.PriceTier, bool) {
	eligible := make([]entity.PriceTier, 0, len(tiers))
	for _, t := range tiers {
		if t.MinQty <= qty {
			eligible = append(eligible, t)
		}
	}
	if len(eligible) == 0 {
		return entity.PriceTier{}, false
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].MinQty > eligible[j].MinQty
	})
	return eligible[0], true
}

// UnitPrice precio unitario para qty: tramo del proveedor o costo base del SKU.
func UnitPrice(sku *entity.SKU, tiers []entity.PriceTier, qty int64) decimal.Decimal {
	if t, ok := PickTier(tiers, qty); ok {
		return t.UnitPrice
	}
	return sku.UnitCost
}
