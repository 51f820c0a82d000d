package xlsx

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// Hojas del archivo de carga. La primera fila de cada hoja es el encabezado.
//
//	SKUs:    code | name | min_stock | max_stock | safety_stock | lead_time_days | unit_cost | active | batch_tracked | preferred_supplier_id
//	Bodegas: id | name | address
//	Precios: supplier_id | sku | min_qty | unit_price
const (
	SheetSKUs       = "SKUs"
	SheetWarehouses = "Bodegas"
	SheetPrices     = "Precios"
)

// CatalogData contenido leído del archivo de carga.
type CatalogData struct {
	SKUs       []*entity.SKU
	Warehouses []*entity.Warehouse
	PriceTiers []entity.PriceTier
}

// ReadCatalog lee las tres hojas; una hoja ausente se toma como vacía.
// Los errores de formato indican hoja y fila y envuelven domain.ErrInvalidInput.
func ReadCatalog(r io.Reader) (*CatalogData, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: archivo xlsx ilegible: %v", domain.ErrInvalidInput, err)
	}
	defer func() { _ = f.Close() }()

	out := &CatalogData{}

	if err := eachRow(f, SheetWarehouses, 2, func(c cells) error {
		out.Warehouses = append(out.Warehouses, &entity.Warehouse{
			ID:      c.str(0),
			Name:    c.str(1),
			Address: c.str(2),
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := eachRow(f, SheetSKUs, 2, func(c cells) error {
		s := &entity.SKU{Code: c.str(0), Name: c.str(1), IsActive: true}
		var err error
		if s.MinStock, err = c.num(2); err != nil {
			return err
		}
		if s.MaxStock, err = c.num(3); err != nil {
			return err
		}
		if s.SafetyStock, err = c.num(4); err != nil {
			return err
		}
		lead, err := c.num(5)
		if err != nil {
			return err
		}
		s.LeadTimeDays = int(lead)
		if s.UnitCost, err = c.money(6); err != nil {
			return err
		}
		if v := c.str(7); v != "" {
			s.IsActive = isTrue(v)
		}
		s.BatchTracked = isTrue(c.str(8))
		s.PreferredSupplierID = c.str(9)
		if s.MaxStock != 0 && s.MaxStock < s.MinStock {
			return fmt.Errorf("max_stock %d menor que min_stock %d", s.MaxStock, s.MinStock)
		}
		out.SKUs = append(out.SKUs, s)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := eachRow(f, SheetPrices, 4, func(c cells) error {
		t := entity.PriceTier{SupplierID: c.str(0), SKU: c.str(1)}
		var err error
		if t.MinQty, err = c.num(2); err != nil {
			return err
		}
		if t.UnitPrice, err = c.money(3); err != nil {
			return err
		}
		out.PriceTiers = append(out.PriceTiers, t)
		return nil
	}); err != nil {
		return nil, err
	}

	return out, nil
}

// eachRow recorre las filas de datos de la hoja. Las filas con la primera celda vacía se
// saltan; minCols es el mínimo de columnas de una fila con datos.
func eachRow(f *excelize.File, sheet string, minCols int, fn func(cells) error) error {
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("%w: hoja %s: %v", domain.ErrInvalidInput, sheet, err)
	}
	for i := 1; i < len(rows); i++ {
		c := cells(rows[i])
		if c.str(0) == "" {
			continue
		}
		if len(c) < minCols {
			return fmt.Errorf("%w: hoja %s fila %d: se esperan al menos %d columnas", domain.ErrInvalidInput, sheet, i+1, minCols)
		}
		if err := fn(c); err != nil {
			return fmt.Errorf("%w: hoja %s fila %d: %v", domain.ErrInvalidInput, sheet, i+1, err)
		}
	}
	return nil
}

type cells []string

func (c cells) str(i int) string {
	if i >= len(c) {
		return ""
	}
	return strings.TrimSpace(c[i])
}

func (c cells) num(i int) (int64, error) {
	v := c.str(i)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("columna %d: entero inválido %q", i+1, v)
	}
	if n < 0 {
		return 0, fmt.Errorf("columna %d: no puede ser negativo", i+1)
	}
	return n, nil
}

func (c cells) money(i int) (decimal.Decimal, error) {
	v := c.str(i)
	if v == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("columna %d: valor inválido %q", i+1, v)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("columna %d: no puede ser negativo", i+1)
	}
	return d, nil
}

func isTrue(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "si", "sí", "x", "yes":
		return true
	}
	return false
}
