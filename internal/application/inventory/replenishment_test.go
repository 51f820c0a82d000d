package inventory_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

func replenishmentFixture(t *testing.T) (*fixture, *inventory.ReplenishmentUseCase) {
	t.Helper()
	f := newFixture()
	f.catalog.Put(&entity.SKU{Code: "S1", Name: "Tornillo", MinStock: 50, MaxStock: 200, SafetyStock: 20,
		UnitCost: decimal.NewFromInt(100), IsActive: true, PreferredSupplierID: "SUP", LeadTimeDays: 7})
	f.catalog.Put(&entity.SKU{Code: "S2", Name: "Tuerca", MinStock: 100, MaxStock: 300, SafetyStock: 10,
		UnitCost: decimal.NewFromInt(5), IsActive: true})
	f.catalog.Put(&entity.SKU{Code: "S3", Name: "Arandela", MinStock: 40, MaxStock: 80, SafetyStock: 5,
		UnitCost: decimal.NewFromInt(2), IsActive: true})
	f.catalog.Put(&entity.SKU{Code: "S4", Name: "Perno", MinStock: 10, MaxStock: 600, SafetyStock: 5,
		UnitCost: decimal.NewFromInt(9), IsActive: true})
	f.catalog.Put(&entity.SKU{Code: "S5", Name: "Descontinuado", MinStock: 10, MaxStock: 20, IsActive: false})
	f.prices.Add(entity.PriceTier{SupplierID: "SUP", SKU: "S1", MinQty: 1, UnitPrice: decimal.NewFromInt(90)})
	f.prices.Add(entity.PriceTier{SupplierID: "SUP", SKU: "S1", MinQty: 150, UnitPrice: decimal.NewFromInt(80)})

	rec := f.recorder(f.ledger, inventory.RecorderConfig{})
	for sku, qty := range map[string]int64{"S2": 45, "S3": 30, "S4": 500} {
		_, err := rec.ReceivePurchaseOrder(context.Background(), "PO-1", inventory.LineInput{SKU: sku, WarehouseID: "W1", Quantity: qty})
		require.NoError(t, err)
	}
	return f, inventory.NewReplenishmentUseCase(f.ledger, f.catalog, f.warehouses, f.prices, zerolog.Nop(), 0)
}

func TestReplenishment_OrdenPorUrgencia(t *testing.T) {
	_, uc := replenishmentFixture(t)

	got, err := uc.GenerateSuggestions(context.Background(), "W1")
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "S1", got[0].SKU)
	assert.Equal(t, "URGENT", got[0].Urgency)
	assert.Equal(t, int64(200), got[0].SuggestedOrderQty)
	assert.True(t, got[0].UnitPrice.Equal(decimal.NewFromInt(80)), "tramo de 150 unidades")
	assert.True(t, got[0].EstimatedOrderCost.Equal(decimal.NewFromInt(16000)))
	assert.Equal(t, "SUP", got[0].SupplierID)
	assert.Equal(t, 7, got[0].LeadTimeDays)

	assert.Equal(t, "S2", got[1].SKU)
	assert.Equal(t, "HIGH", got[1].Urgency)
	assert.Equal(t, int64(255), got[1].SuggestedOrderQty)
	assert.True(t, got[1].UnitPrice.Equal(decimal.NewFromInt(5)), "sin proveedor usa el costo")

	assert.Equal(t, "S3", got[2].SKU)
	assert.Equal(t, "MEDIUM", got[2].Urgency)

	for i, s := range got {
		assert.Equal(t, i+1, s.Priority)
	}
}

func TestReplenishment_TodasLasBodegas(t *testing.T) {
	_, uc := replenishmentFixture(t)

	got, err := uc.GenerateSuggestions(context.Background(), "")
	require.NoError(t, err)
	// W1: S1, S2, S3. W2 no tiene movimientos: los cuatro SKUs activos están en cero.
	require.Len(t, got, 7)
	assert.Equal(t, "S2", got[0].SKU)
	assert.Equal(t, "W2", got[0].WarehouseID)
	assert.Equal(t, "S3", got[6].SKU)
	assert.Equal(t, "W1", got[6].WarehouseID)
	for _, s := range got {
		assert.NotEqual(t, "S5", s.SKU, "los inactivos no se reponen")
	}
}

func TestReplenishment_BajoPuntoDeReorden(t *testing.T) {
	_, uc := replenishmentFixture(t)

	got, err := uc.SKUsBelowReorderPoint(context.Background(), "W1")
	require.NoError(t, err)
	deficits := map[string]int64{}
	for _, it := range got {
		deficits[it.SKU] = it.Deficit
	}
	assert.Equal(t, map[string]int64{"S1": 50, "S2": 55, "S3": 10}, deficits)
}

func TestReplenishment_BodegaDesconocida(t *testing.T) {
	_, uc := replenishmentFixture(t)
	_, err := uc.GenerateSuggestions(context.Background(), "W9")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReplenishment_SinFaltantesDevuelveListaVacia(t *testing.T) {
	f := newFixture()
	rec := f.recorder(f.ledger, inventory.RecorderConfig{})
	_, err := rec.ReceivePurchaseOrder(context.Background(), "PO-1", line(120))
	require.NoError(t, err)

	uc := inventory.NewReplenishmentUseCase(f.ledger, f.catalog, f.warehouses, f.prices, zerolog.Nop(), 0)
	got, err := uc.GenerateSuggestions(context.Background(), "W1")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestReplenishment_FlujoCompletoHastaSugerenciaUrgente(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.catalog.Put(&entity.SKU{Code: "S1", Name: "Tornillo", MinStock: 10, MaxStock: 100, SafetyStock: 5,
		UnitCost: decimal.NewFromInt(3), IsActive: true})
	rec := f.recorder(f.ledger, inventory.RecorderConfig{})
	resolver := inventory.NewBalanceResolver(f.ledger)

	_, err := rec.ReceivePurchaseOrder(ctx, "PO-1", line(50))
	require.NoError(t, err)

	_, err = rec.FulfillOrder(ctx, "O-1", line(60))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	bal, err := resolver.CurrentBalance(ctx, "S1", "W1")
	require.NoError(t, err)
	assert.Equal(t, int64(50), bal, "la salida rechazada no escribe")

	_, err = rec.FulfillOrder(ctx, "O-2", line(50))
	require.NoError(t, err)

	uc := inventory.NewReplenishmentUseCase(f.ledger, f.catalog, f.warehouses, f.prices, zerolog.Nop(), 0)
	got, err := uc.GenerateSuggestions(ctx, "W1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "S1", got[0].SKU)
	assert.Equal(t, int64(0), got[0].CurrentStock)
	assert.Equal(t, "URGENT", got[0].Urgency)
	assert.Equal(t, int64(100), got[0].SuggestedOrderQty)
	assert.True(t, got[0].EstimatedOrderCost.Equal(decimal.NewFromInt(300)))
}
