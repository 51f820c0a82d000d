package xlsx_test

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/xlsx"
)

func catalogFile(t *testing.T, sheets map[string][][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	for name, rows := range sheets {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
		for i, r := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &r))
		}
	}
	buf := &bytes.Buffer{}
	require.NoError(t, f.Write(buf))
	return buf
}

func TestReadCatalog_TresHojas(t *testing.T) {
	buf := catalogFile(t, map[string][][]interface{}{
		xlsx.SheetWarehouses: {
			{"id", "name", "address"},
			{"W1", "Central", "Calle 1"},
		},
		xlsx.SheetSKUs: {
			{"code", "name", "min", "max", "safety", "lead", "cost", "active", "batch", "supplier"},
			{"S1", "Tornillo", 50, 200, 20, 7, "10.50", "si", "no", "P1"},
			{"", "fila vacía se ignora"},
		},
		xlsx.SheetPrices: {
			{"supplier_id", "sku", "min_qty", "unit_price"},
			{"P1", "S1", 100, "9.80"},
		},
	})

	data, err := xlsx.ReadCatalog(buf)
	require.NoError(t, err)

	require.Len(t, data.Warehouses, 1)
	assert.Equal(t, "W1", data.Warehouses[0].ID)

	require.Len(t, data.SKUs, 1)
	s := data.SKUs[0]
	assert.Equal(t, "S1", s.Code)
	assert.Equal(t, int64(50), s.MinStock)
	assert.Equal(t, int64(200), s.MaxStock)
	assert.Equal(t, 7, s.LeadTimeDays)
	assert.True(t, s.UnitCost.Equal(decimal.RequireFromString("10.5")))
	assert.True(t, s.IsActive)
	assert.False(t, s.BatchTracked)
	assert.Equal(t, "P1", s.PreferredSupplierID)

	require.Len(t, data.PriceTiers, 1)
	assert.Equal(t, int64(100), data.PriceTiers[0].MinQty)
}

func TestReadCatalog_EnteroInvalidoIndicaFila(t *testing.T) {
	buf := catalogFile(t, map[string][][]interface{}{
		xlsx.SheetSKUs: {
			{"code", "name", "min"},
			{"S1", "Tornillo", "mucho"},
		},
	})

	_, err := xlsx.ReadCatalog(buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "fila 2")
}

func TestReadCatalog_ArchivoIlegible(t *testing.T) {
	_, err := xlsx.ReadCatalog(bytes.NewBufferString("no es un xlsx"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────

func TestStockValue_FilaDeTotal(t *testing.T) {
	out, err := xlsx.StockValue(&dto.StockValueReportDTO{
		TotalValue: decimal.NewFromInt(1500),
		Items: []dto.StockValueItemDTO{
			{SKU: "S1", ProductName: "Tornillo", Quantity: 15, UnitCost: decimal.NewFromInt(100), TotalValue: decimal.NewFromInt(1500)},
		},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Valor")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "sku", rows[0][0])
	assert.Equal(t, "S1", rows[1][0])
	assert.Equal(t, "TOTAL", rows[2][0])
	assert.Equal(t, "1500", rows[2][4])
}

func TestReorder_HojaConEncabezado(t *testing.T) {
	out, err := xlsx.Reorder([]dto.ReplenishmentSuggestionDTO{
		{Priority: 1, SKU: "S1", WarehouseID: "W1", SuggestedOrderQty: 100, Urgency: "URGENT"},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Reposicion")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "URGENT", rows[1][10])
}
