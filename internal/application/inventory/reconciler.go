package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// FindingKind tipo de inconsistencia detectada al conciliar.
type FindingKind string

const (
	FindingReplayMismatch FindingKind = "REPLAY_MISMATCH" // BalanceQuantity no coincide con la suma de efectos
	FindingBatchDrift     FindingKind = "BATCH_DRIFT"     // la suma por lotes no coincide con el libro
)

// Finding una inconsistencia de una clave (sku, bodega).
type Finding struct {
	Kind        FindingKind
	SKU         string
	WarehouseID string
	MovementID  string
	Seq         int64
	Stored      int64 // valor según el libro
	Expected    int64 // valor recalculado
}

// ReplayResult resultado de reproducir el historial de una clave.
type ReplayResult struct {
	SKU         string
	WarehouseID string
	Movements   int
	Balance     int64
	Mismatch    *domaininv.ReplayMismatch
}

// Consistent true si todas las filas reproducen su saldo almacenado.
func (r ReplayResult) Consistent() bool { return r.Mismatch == nil }

// Reconciler verifica que el libro sea internamente consistente.
type Reconciler struct {
	ledger   repository.LedgerRepository
	catalog  repository.CatalogRepository
	resolver *BalanceResolver
	batches  *BatchView
	metrics  ReconcileMetrics
	log      zerolog.Logger
	pageSize int
}

// NewReconciler construye el conciliador. metrics puede ser nil.
func NewReconciler(
	ledger repository.LedgerRepository,
	catalog repository.CatalogRepository,
	metrics ReconcileMetrics,
	log zerolog.Logger,
	pageSize int,
) *Reconciler {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Reconciler{
		ledger:   ledger,
		catalog:  catalog,
		resolver: NewBalanceResolver(ledger),
		batches:  NewBatchView(ledger, pageSize),
		metrics:  metrics,
		log:      log,
		pageSize: pageSize,
	}
}

// VerifyReplay reproduce desde cero el historial de (sku, bodega), del más antiguo al más
// reciente, sin cargarlo completo en memoria.
func (r *Reconciler) VerifyReplay(ctx context.Context, sku, warehouseID string) (ReplayResult, error) {
	var rep domaininv.Replayer
	err := r.ledger.Scan(ctx, repository.MovementFilter{SKU: sku, WarehouseID: warehouseID}, r.pageSize,
		func(page []*entity.StockMovement) error {
			for _, m := range page {
				if !rep.Feed(m) {
					return errStopScan
				}
			}
			return nil
		})
	if err != nil && !errors.Is(err, errStopScan) {
		return ReplayResult{}, fmt.Errorf("reproducir %s@%s: %w", sku, warehouseID, err)
	}
	return ReplayResult{
		SKU:         sku,
		WarehouseID: warehouseID,
		Movements:   rep.Count(),
		Balance:     rep.Balance(),
		Mismatch:    rep.Mismatch(),
	}, nil
}

// Run concilia todas las claves con movimientos: reproducción del saldo y, en SKUs con
// lotes, suma por lote contra el libro. Devuelve los hallazgos; el libro nunca se corrige
// automáticamente (las correcciones son ajustes explícitos).
func (r *Reconciler) Run(ctx context.Context) ([]Finding, error) {
	keys, err := r.ledger.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar claves del libro: %w", err)
	}

	batchTracked := make(map[string]bool)
	var findings []Finding
	for _, k := range keys {
		if err := ctx.Err(); err != nil {
			return findings, err
		}

		res, err := r.VerifyReplay(ctx, k.SKU, k.WarehouseID)
		if err != nil {
			return findings, err
		}
		if !res.Consistent() {
			f := Finding{
				Kind:        FindingReplayMismatch,
				SKU:         k.SKU,
				WarehouseID: k.WarehouseID,
				MovementID:  res.Mismatch.MovementID,
				Seq:         res.Mismatch.Seq,
				Stored:      res.Mismatch.Stored,
				Expected:    res.Mismatch.Expected,
			}
			r.logFinding(f)
			findings = append(findings, f)
		}

		tracked, seen := batchTracked[k.SKU]
		if !seen {
			sku, err := r.catalog.GetByCode(ctx, k.SKU)
			if err != nil {
				return findings, fmt.Errorf("consultar sku %s: %w", k.SKU, err)
			}
			tracked = sku != nil && sku.BatchTracked
			batchTracked[k.SKU] = tracked
		}
		if !tracked {
			continue
		}
		if f, ok, err := r.checkBatches(ctx, k); err != nil {
			return findings, err
		} else if ok {
			r.logFinding(f)
			findings = append(findings, f)
		}
	}

	r.metrics.ReconcileFinished(len(findings))
	r.log.Info().Int("keys", len(keys)).Int("findings", len(findings)).Msg("conciliación terminada")
	return findings, nil
}

// checkBatches compara la suma por lotes con el saldo del libro; ok=true si difieren.
func (r *Reconciler) checkBatches(ctx context.Context, k entity.StockKey) (Finding, bool, error) {
	ledgerQty, err := r.resolver.CurrentBalance(ctx, k.SKU, k.WarehouseID)
	if err != nil {
		return Finding{}, false, err
	}
	batchQty, err := r.batches.Total(ctx, k.SKU, k.WarehouseID)
	if err != nil {
		return Finding{}, false, err
	}
	if batchQty == ledgerQty {
		return Finding{}, false, nil
	}
	return Finding{
		Kind:        FindingBatchDrift,
		SKU:         k.SKU,
		WarehouseID: k.WarehouseID,
		Stored:      ledgerQty,
		Expected:    batchQty,
	}, true, nil
}

func (r *Reconciler) logFinding(f Finding) {
	r.log.Warn().
		Str("kind", string(f.Kind)).
		Str("sku", f.SKU).
		Str("warehouse_id", f.WarehouseID).
		Str("movement_id", f.MovementID).
		Int64("stored", f.Stored).
		Int64("expected", f.Expected).
		Msg("inconsistencia en el libro")
}

// ReplayToDTO convierte el resultado de VerifyReplay a respuesta.
func ReplayToDTO(r ReplayResult) dto.ReplayResponse {
	out := dto.ReplayResponse{
		SKU:         r.SKU,
		WarehouseID: r.WarehouseID,
		Movements:   r.Movements,
		Balance:     r.Balance,
		Consistent:  r.Consistent(),
	}
	if r.Mismatch != nil {
		out.Mismatch = &dto.FindingResponse{
			Kind:        string(FindingReplayMismatch),
			SKU:         r.SKU,
			WarehouseID: r.WarehouseID,
			MovementID:  r.Mismatch.MovementID,
			Seq:         r.Mismatch.Seq,
			Stored:      r.Mismatch.Stored,
			Expected:    r.Mismatch.Expected,
		}
	}
	return out
}

// FindingsToDTO convierte los hallazgos de Run a respuesta.
func FindingsToDTO(findings []Finding) dto.ReconcileResponse {
	out := dto.ReconcileResponse{Consistent: len(findings) == 0, Findings: make([]dto.FindingResponse, 0, len(findings))}
	for _, f := range findings {
		out.Findings = append(out.Findings, dto.FindingResponse{
			Kind:        string(f.Kind),
			SKU:         f.SKU,
			WarehouseID: f.WarehouseID,
			MovementID:  f.MovementID,
			Seq:         f.Seq,
			Stored:      f.Stored,
			Expected:    f.Expected,
		})
	}
	return out
}
