// Package pdf genera los reportes imprimibles del inventario con Maroto v2.
//
// Layout de la página A4 (ambos reportes):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + bodega       │  Fecha de corte            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: una fila por SKU                                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES                                                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/core/entity"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorUrgent  = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// ReportGenerator genera los PDF de valor de inventario y de reposición.
type ReportGenerator struct {
	author string
}

// NewReportGenerator construye el generador. author aparece en los metadatos del PDF.
func NewReportGenerator(author string) *ReportGenerator {
	return &ReportGenerator{author: author}
}

// column definición de una columna de tabla (tamaños sobre 12).
type column struct {
	label string
	size  int
	align align.Type
}

var stockValueColumns = []column{
	{"SKU", 2, align.Left},
	{"Producto", 4, align.Left},
	{"Cantidad", 2, align.Right},
	{"Costo unit.", 2, align.Right},
	{"Valor", 2, align.Right},
}

var reorderColumns = []column{
	{"#", 1, align.Center},
	{"SKU", 2, align.Left},
	{"Bodega", 2, align.Left},
	{"Actual", 1, align.Right},
	{"Pedir", 1, align.Right},
	{"Precio", 2, align.Right},
	{"Costo", 2, align.Right},
	{"Urgencia", 1, align.Center},
}

// StockValuePDF reporte de valor del inventario.
func (g *ReportGenerator) StockValuePDF(_ context.Context, report *dto.StockValueReportDTO) ([]byte, error) {
	m := maroto.New(g.config("Valor del inventario"))

	m.AddRows(headerRow("VALOR DEL INVENTARIO", scopeLabel(report.WarehouseID), report.AsOf))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow(stockValueColumns))
	for _, it := range report.Items {
		m.AddRows(tableRow(stockValueColumns, nil,
			it.SKU,
			it.ProductName,
			formatInt(it.Quantity),
			"$"+formatMoney(it.UnitCost),
			"$"+formatMoney(it.TotalValue),
		))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow("VALOR TOTAL:", "$"+formatMoney(report.TotalValue)))

	return generate(m)
}

// ReorderPDF lista de reposición para compras.
func (g *ReportGenerator) ReorderPDF(_ context.Context, warehouseID string, asOf time.Time, suggestions []dto.ReplenishmentSuggestionDTO) ([]byte, error) {
	m := maroto.New(g.config("Sugerencias de reposición"))

	m.AddRows(headerRow("SUGERENCIAS DE REPOSICIÓN", scopeLabel(warehouseID), asOf))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow(reorderColumns))

	total := decimal.Zero
	for _, s := range suggestions {
		var color *props.Color
		if s.Urgency == "URGENT" {
			color = colorUrgent
		}
		m.AddRows(tableRow(reorderColumns, color,
			fmt.Sprint(s.Priority),
			s.SKU,
			s.WarehouseID,
			formatInt(s.CurrentStock),
			formatInt(s.SuggestedOrderQty),
			"$"+formatMoney(s.UnitPrice),
			"$"+formatMoney(s.EstimatedOrderCost),
			s.Urgency,
		))
		total = total.Add(s.EstimatedOrderCost)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow("COSTO ESTIMADO:", "$"+formatMoney(total)))

	return generate(m)
}

func (g *ReportGenerator) config(title string) *entity.Config {
	return config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(g.author, true).
		Build()
}

func generate(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(title, scope string, asOf time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(scope, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Corte: "+asOf.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow(cols []column) core.Row {
	out := make([]core.Col, 0, len(cols))
	for _, c := range cols {
		out = append(out, col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(out...)
}

func tableRow(cols []column, color *props.Color, values ...string) core.Row {
	out := make([]core.Col, 0, len(cols))
	for i, c := range cols {
		out = append(out, col.New(c.size).Add(text.New(values[i], props.Text{
			Size: 8, Align: c.align, Top: 1, Left: 1, Right: 1, Color: color,
		})))
	}
	return row.New(6).Add(out...)
}

func totalsRow(label, value string) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 2,
		})),
		col.New(3).Add(text.New(value, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func scopeLabel(warehouseID string) string {
	if warehouseID == "" {
		return "Todas las bodegas"
	}
	return "Bodega: " + warehouseID
}

func formatInt(n int64) string {
	return groupThousands(fmt.Sprint(n))
}

// formatMoney redondea a pesos e inserta puntos de miles. Ej: 1234567.8 → "1.234.568".
func formatMoney(d decimal.Decimal) string {
	return groupThousands(d.StringFixed(0))
}

// groupThousands inserta puntos de miles en un entero en texto, respetando el signo.
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
