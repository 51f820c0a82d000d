package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

func skuParams(min, max, safety int64) *entity.SKU {
	return &entity.SKU{Code: "S1", MinStock: min, MaxStock: max, SafetyStock: safety, UnitCost: decimal.NewFromInt(10)}
}

func TestNeedsReorder_EnOBajoElPunto(t *testing.T) {
	s := skuParams(50, 200, 20)
	assert.True(t, inventory.NeedsReorder(s, 50))
	assert.True(t, inventory.NeedsReorder(s, 0))
	assert.False(t, inventory.NeedsReorder(s, 51))
}

func TestRecommendedOrderQty(t *testing.T) {
	assert.Equal(t, int64(100), inventory.RecommendedOrderQty(skuParams(50, 100, 20), 0))
	assert.Equal(t, int64(160), inventory.RecommendedOrderQty(skuParams(50, 200, 20), 40))
	// max - actual menor que el stock de seguridad: manda el stock de seguridad
	assert.Equal(t, int64(20), inventory.RecommendedOrderQty(skuParams(50, 60, 20), 45))
}

func TestClassifyUrgency(t *testing.T) {
	s := skuParams(100, 300, 20)
	assert.Equal(t, inventory.UrgencyUrgent, inventory.ClassifyUrgency(s, 0))
	assert.Equal(t, inventory.UrgencyUrgent, inventory.ClassifyUrgency(s, 20))
	assert.Equal(t, inventory.UrgencyHigh, inventory.ClassifyUrgency(s, 50))
	assert.Equal(t, inventory.UrgencyMedium, inventory.ClassifyUrgency(s, 51))
	assert.Less(t, inventory.UrgencyUrgent.Rank(), inventory.UrgencyHigh.Rank())
	assert.Less(t, inventory.UrgencyHigh.Rank(), inventory.UrgencyMedium.Rank())
}

func TestPickTier_MayorMinimoAlcanzado(t *testing.T) {
	tiers := []entity.PriceTier{
		{MinQty: 1, UnitPrice: decimal.NewFromInt(10)},
		{MinQty: 100, UnitPrice: decimal.NewFromInt(9)},
		{MinQty: 500, UnitPrice: decimal.NewFromInt(8)},
	}

	tier, ok := inventory.PickTier(tiers, 250)
	assert.True(t, ok)
	assert.Equal(t, int64(100), tier.MinQty)

	tier, ok = inventory.PickTier(tiers, 500)
	assert.True(t, ok)
	assert.Equal(t, int64(500), tier.MinQty)

	_, ok = inventory.PickTier(tiers[1:], 50)
	assert.False(t, ok)
}

func TestUnitPrice_SinTramoUsaCostoDelSKU(t *testing.T) {
	s := skuParams(50, 200, 20)
	assert.True(t, inventory.UnitPrice(s, nil, 10).Equal(decimal.NewFromInt(10)))

	tiers := []entity.PriceTier{{MinQty: 5, UnitPrice: decimal.RequireFromString("7.5")}}
	assert.True(t, inventory.UnitPrice(s, tiers, 10).Equal(decimal.RequireFromString("7.5")))
}
