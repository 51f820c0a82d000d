// Package analytics contiene los reportes derivados del historial del libro:
// clasificación ABC, rotación, vencimientos y valor del inventario.
//
// Todos leen con recorridos paginados (LedgerRepository.Scan) y no toman ningún lock
// compartido con el registro de movimientos.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

const (
	abcWindowMonths     = 12
	defaultTurnoverMths = 12
	maxTurnoverMonths   = 60
	dateLayout          = "2006-01-02"
)

// ReportUseCase genera los reportes de analítica de inventario.
type ReportUseCase struct {
	ledger   repository.LedgerRepository
	catalog  repository.CatalogRepository
	resolver *inventory.BalanceResolver
	log      zerolog.Logger
	pageSize int
	now      func() time.Time
}

// Option configura el ReportUseCase.
type Option func(*ReportUseCase)

// WithClock fija el reloj de referencia (ventanas y días al vencimiento).
func WithClock(now func() time.Time) Option {
	return func(uc *ReportUseCase) { uc.now = now }
}

// NewReportUseCase construye el caso de uso. pageSize <= 0 usa el del repositorio.
func NewReportUseCase(
	ledger repository.LedgerRepository,
	catalog repository.CatalogRepository,
	log zerolog.Logger,
	pageSize int,
	opts ...Option,
) *ReportUseCase {
	uc := &ReportUseCase{
		ledger:   ledger,
		catalog:  catalog,
		resolver: inventory.NewBalanceResolver(ledger),
		log:      log,
		pageSize: pageSize,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// ── ABC ───────────────────────────────────────────────────────────────────────

// ABCAnalysis clasifica cada SKU activo por el valor de su consumo de los últimos 12 meses.
// Orden descendente por valor; A mientras el acumulado sea <= 70 %, B <= 90 %, C el resto.
// Si el valor total es cero todos quedan en C.
func (uc *ReportUseCase) ABCAnalysis(ctx context.Context) (*dto.ABCReportDTO, error) {
	skus, err := uc.catalog.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar skus activos: %w", err)
	}

	end := uc.now()
	start := end.AddDate(0, -abcWindowMonths, 0)
	consumption, err := uc.sumQuantities(ctx, repository.MovementFilter{
		Types: []entity.MovementType{entity.MovementOutward, entity.MovementTransferOut},
		From:  &start,
		To:    &end,
	})
	if err != nil {
		return nil, err
	}

	items := make([]dto.ABCItemDTO, 0, len(skus))
	total := decimal.Zero
	for _, s := range skus {
		qty := consumption[s.Code]
		value := s.UnitCost.Mul(decimal.NewFromInt(qty))
		total = total.Add(value)
		items = append(items, dto.ABCItemDTO{
			SKU:               s.Code,
			ProductName:       s.Name,
			AnnualConsumption: qty,
			UnitCost:          s.UnitCost,
			AnnualValue:       value,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].AnnualValue.Equal(items[j].AnnualValue) {
			return items[i].AnnualValue.GreaterThan(items[j].AnnualValue)
		}
		return items[i].SKU < items[j].SKU
	})

	report := &dto.ABCReportDTO{
		Period:     dto.PeriodDTO{StartDate: start.Format(dateLayout), EndDate: end.Format(dateLayout)},
		TotalValue: total,
		Items:      items,
	}
	// El acumulado se lleva en valor; el porcentaje se calcula una sola vez por fila.
	cumValue := decimal.Zero
	for i := range items {
		class := domaininv.ClassC
		cumValue = cumValue.Add(items[i].AnnualValue)
		if pct, ok := domaininv.Percentage(items[i].AnnualValue, total); ok {
			cumPct, _ := domaininv.Percentage(cumValue, total)
			items[i].ValuePct = pct.Round(2)
			items[i].CumulativePct = cumPct.Round(2)
			class = domaininv.ClassifyABC(cumPct)
		}
		items[i].Class = string(class)
		switch class {
		case domaininv.ClassA:
			report.CountA++
		case domaininv.ClassB:
			report.CountB++
		default:
			report.CountC++
		}
	}
	return report, nil
}

// ── Rotación ──────────────────────────────────────────────────────────────────

// TurnoverRatio rotación de inventario de los últimos months meses (default 12).
// COGS solo cuenta salidas OUTWARD (los traslados no son costo de ventas) valoradas al
// costo unitario actual; el valor de inventario es el stock actual, de un SKU o de todos.
func (uc *ReportUseCase) TurnoverRatio(ctx context.Context, sku string, months int) (*dto.TurnoverDTO, error) {
	if months <= 0 {
		months = defaultTurnoverMths
	}
	if months > maxTurnoverMonths {
		return nil, fmt.Errorf("%w: months debe ser <= %d", domain.ErrInvalidInput, maxTurnoverMonths)
	}

	costs, err := uc.unitCosts(ctx, sku)
	if err != nil {
		return nil, err
	}

	end := uc.now()
	start := end.AddDate(0, -months, 0)

	// COGS y valor del inventario son independientes: se calculan en paralelo.
	type valueResult struct {
		value decimal.Decimal
		err   error
	}
	cogsCh := make(chan valueResult, 1)
	invCh := make(chan valueResult, 1)

	go func() {
		sold, err := uc.sumQuantities(ctx, repository.MovementFilter{
			SKU:   sku,
			Types: []entity.MovementType{entity.MovementOutward},
			From:  &start,
			To:    &end,
		})
		cogs := decimal.Zero
		for code, qty := range sold {
			cogs = cogs.Add(costs[code].Mul(decimal.NewFromInt(qty)))
		}
		cogsCh <- valueResult{cogs, err}
	}()
	go func() {
		value := decimal.Zero
		for code, cost := range costs {
			qty, err := uc.resolver.TotalBalance(ctx, code)
			if err != nil {
				invCh <- valueResult{err: err}
				return
			}
			value = value.Add(cost.Mul(decimal.NewFromInt(qty)))
		}
		invCh <- valueResult{value: value}
	}()

	cogs, inv := <-cogsCh, <-invCh
	if cogs.err != nil {
		return nil, fmt.Errorf("rotación: costo de ventas: %w", cogs.err)
	}
	if inv.err != nil {
		return nil, fmt.Errorf("rotación: valor del inventario: %w", inv.err)
	}

	ratio, days := domaininv.Turnover(cogs.value, inv.value)
	return &dto.TurnoverDTO{
		SKU:               sku,
		Months:            months,
		Period:            dto.PeriodDTO{StartDate: start.Format(dateLayout), EndDate: end.Format(dateLayout)},
		COGS:              cogs.value,
		AvgInventoryValue: inv.value,
		TurnoverRatio:     ratio.Round(2),
		DaysInventory:     days.Round(2),
	}, nil
}

// unitCosts costo unitario por SKU: solo el indicado, o todos los activos.
func (uc *ReportUseCase) unitCosts(ctx context.Context, sku string) (map[string]decimal.Decimal, error) {
	if sku != "" {
		s, err := uc.catalog.GetByCode(ctx, sku)
		if err != nil {
			return nil, fmt.Errorf("consultar sku %s: %w", sku, err)
		}
		if s == nil {
			return nil, fmt.Errorf("%w: sku %s", domain.ErrNotFound, sku)
		}
		return map[string]decimal.Decimal{s.Code: s.UnitCost}, nil
	}
	skus, err := uc.catalog.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar skus activos: %w", err)
	}
	costs := make(map[string]decimal.Decimal, len(skus))
	for _, s := range skus {
		costs[s.Code] = s.UnitCost
	}
	return costs, nil
}

// ── Vencimientos ──────────────────────────────────────────────────────────────

// StockAgeing clasifica las entradas INWARD con fecha de vencimiento por días restantes.
// warehouseID vacío = todas las bodegas. Ítems ordenados del más próximo a vencer.
func (uc *ReportUseCase) StockAgeing(ctx context.Context, warehouseID string) (*dto.AgeingReportDTO, error) {
	now := uc.now()
	totals := make(map[domaininv.AgeingBucket]*dto.AgeingBucketDTO, len(domaininv.AgeingBuckets))
	buckets := make([]dto.AgeingBucketDTO, len(domaininv.AgeingBuckets))
	for i, b := range domaininv.AgeingBuckets {
		buckets[i] = dto.AgeingBucketDTO{Bucket: string(b)}
		totals[b] = &buckets[i]
	}

	items := []dto.AgeingItemDTO{}
	err := uc.ledger.Scan(ctx, repository.MovementFilter{
		WarehouseID: warehouseID,
		Types:       []entity.MovementType{entity.MovementInward},
		WithExpiry:  true,
	}, uc.pageSize, func(page []*entity.StockMovement) error {
		for _, m := range page {
			days := domaininv.DaysUntil(now, *m.ExpiryDate)
			bucket := domaininv.BucketFor(days)
			items = append(items, dto.AgeingItemDTO{
				MovementID:      m.ID,
				SKU:             m.SKU,
				WarehouseID:     m.WarehouseID,
				BatchNumber:     m.BatchNumber,
				Quantity:        m.Quantity,
				ExpiryDate:      *m.ExpiryDate,
				DaysUntilExpiry: days,
				Bucket:          string(bucket),
			})
			totals[bucket].Entries++
			totals[bucket].Quantity += m.Quantity
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reporte de vencimientos: %w", err)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].DaysUntilExpiry != items[j].DaysUntilExpiry {
			return items[i].DaysUntilExpiry < items[j].DaysUntilExpiry
		}
		return items[i].SKU < items[j].SKU
	})
	return &dto.AgeingReportDTO{
		WarehouseID: warehouseID,
		AsOf:        now,
		Buckets:     buckets,
		Items:       items,
	}, nil
}

// ── Valor del inventario ──────────────────────────────────────────────────────

// StockValueReport valor (cantidad * costo unitario) de cada SKU activo, en una bodega o
// global, ordenado de mayor a menor valor.
func (uc *ReportUseCase) StockValueReport(ctx context.Context, warehouseID string) (*dto.StockValueReportDTO, error) {
	skus, err := uc.catalog.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar skus activos: %w", err)
	}

	report := &dto.StockValueReportDTO{
		WarehouseID: warehouseID,
		AsOf:        uc.now(),
		TotalValue:  decimal.Zero,
		Items:       make([]dto.StockValueItemDTO, 0, len(skus)),
	}
	for _, s := range skus {
		qty, err := uc.resolver.Balance(ctx, s.Code, warehouseID)
		if err != nil {
			return nil, err
		}
		value := s.UnitCost.Mul(decimal.NewFromInt(qty))
		report.TotalValue = report.TotalValue.Add(value)
		report.Items = append(report.Items, dto.StockValueItemDTO{
			SKU:         s.Code,
			ProductName: s.Name,
			Quantity:    qty,
			UnitCost:    s.UnitCost,
			TotalValue:  value,
		})
	}
	sort.SliceStable(report.Items, func(i, j int) bool {
		a, b := report.Items[i], report.Items[j]
		if !a.TotalValue.Equal(b.TotalValue) {
			return a.TotalValue.GreaterThan(b.TotalValue)
		}
		return a.SKU < b.SKU
	})
	return report, nil
}

// sumQuantities suma las cantidades por SKU de los movimientos que cumplen el filtro.
func (uc *ReportUseCase) sumQuantities(ctx context.Context, f repository.MovementFilter) (map[string]int64, error) {
	out := make(map[string]int64)
	err := uc.ledger.Scan(ctx, f, uc.pageSize, func(page []*entity.StockMovement) error {
		for _, m := range page {
			out[m.SKU] += m.Quantity
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("recorrer movimientos: %w", err)
	}
	return out, nil
}
