// Package xlsx exporta los reportes a Excel y lee el archivo de carga del catálogo.
package xlsx

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

// ContentType tipo MIME de los archivos generados.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// StockValue hoja con el valor del inventario por SKU y el total al final.
func StockValue(report *dto.StockValueReportDTO) ([]byte, error) {
	rows := make([][]interface{}, 0, len(report.Items)+1)
	for _, it := range report.Items {
		rows = append(rows, []interface{}{
			it.SKU, it.ProductName, it.Quantity,
			it.UnitCost.InexactFloat64(), it.TotalValue.InexactFloat64(),
		})
	}
	rows = append(rows, []interface{}{"TOTAL", "", "", "", report.TotalValue.InexactFloat64()})

	return write("Valor", []interface{}{"sku", "producto", "cantidad", "costo_unitario", "valor"}, rows)
}

// ABC hoja con la clasificación ABC.
func ABC(report *dto.ABCReportDTO) ([]byte, error) {
	rows := make([][]interface{}, 0, len(report.Items))
	for _, it := range report.Items {
		rows = append(rows, []interface{}{
			it.SKU, it.ProductName, it.AnnualConsumption,
			it.UnitCost.InexactFloat64(), it.AnnualValue.InexactFloat64(),
			it.ValuePct.InexactFloat64(), it.CumulativePct.InexactFloat64(), it.Class,
		})
	}
	header := []interface{}{
		"sku", "producto", "consumo_anual", "costo_unitario",
		"valor_anual", "porcentaje", "acumulado", "clase",
	}
	return write("ABC", header, rows)
}

// Reorder hoja con las sugerencias de reposición en orden de prioridad.
func Reorder(suggestions []dto.ReplenishmentSuggestionDTO) ([]byte, error) {
	rows := make([][]interface{}, 0, len(suggestions))
	for _, s := range suggestions {
		rows = append(rows, []interface{}{
			s.Priority, s.SKU, s.ProductName, s.WarehouseID,
			s.CurrentStock, s.ReorderPoint, s.SuggestedOrderQty,
			s.SupplierID, s.UnitPrice.InexactFloat64(), s.EstimatedOrderCost.InexactFloat64(),
			s.Urgency, s.LeadTimeDays,
		})
	}
	header := []interface{}{
		"prioridad", "sku", "producto", "bodega", "stock_actual", "punto_reorden",
		"cantidad_sugerida", "proveedor", "precio_unitario", "costo_estimado",
		"urgencia", "dias_entrega",
	}
	return write("Reposicion", header, rows)
}

func write(sheetName string, header []interface{}, rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), sheetName); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("xlsx: encabezado: %w", err)
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("xlsx: celda: %w", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &r); err != nil {
			return nil, fmt.Errorf("xlsx: fila %d: %w", i+2, err)
		}
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}
