package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
)

// corruptLedger altera el saldo almacenado de una fila al leerla, como lo haría una
// escritura fuera del registrador.
type corruptLedger struct {
	*memory.LedgerStore
	scanSeq  int64 // fila alterada en Scan
	latestBy int64 // desfase aplicado en Latest
}

func (l *corruptLedger) Scan(ctx context.Context, f repository.MovementFilter, pageSize int, fn func([]*entity.StockMovement) error) error {
	return l.LedgerStore.Scan(ctx, f, pageSize, func(page []*entity.StockMovement) error {
		for _, m := range page {
			if m.Seq == l.scanSeq {
				m.BalanceQuantity += 7
			}
		}
		return fn(page)
	})
}

func (l *corruptLedger) Latest(ctx context.Context, sku, warehouseID string) (*entity.StockMovement, error) {
	m, err := l.LedgerStore.Latest(ctx, sku, warehouseID)
	if m != nil {
		m.BalanceQuantity += l.latestBy
	}
	return m, err
}

func seedMovements(t *testing.T, f *fixture) {
	t.Helper()
	ctx := context.Background()
	rec := f.recorder(f.ledger, inventory.RecorderConfig{})
	_, err := rec.ReceivePurchaseOrder(ctx, "PO-1", line(100))
	require.NoError(t, err)
	_, err = rec.FulfillOrder(ctx, "O-1", line(30))
	require.NoError(t, err)
	_, err = rec.FulfillOrder(ctx, "O-2", line(20))
	require.NoError(t, err)
}

func TestReconciler_LibroConsistente(t *testing.T) {
	f := newFixture()
	seedMovements(t, f)
	rc := inventory.NewReconciler(f.ledger, f.catalog, nil, zerolog.Nop(), 2)

	res, err := rc.VerifyReplay(context.Background(), "S1", "W1")
	require.NoError(t, err)
	assert.True(t, res.Consistent())
	assert.Equal(t, 3, res.Movements)
	assert.Equal(t, int64(50), res.Balance)

	findings, err := rc.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, findings)
	assert.True(t, inventory.FindingsToDTO(findings).Consistent)
}

func TestReconciler_DetectaSaldoAlterado(t *testing.T) {
	f := newFixture()
	seedMovements(t, f)
	bad := &corruptLedger{LedgerStore: f.ledger, scanSeq: 2}
	rc := inventory.NewReconciler(bad, f.catalog, nil, zerolog.Nop(), 0)

	res, err := rc.VerifyReplay(context.Background(), "S1", "W1")
	require.NoError(t, err)
	require.False(t, res.Consistent())
	assert.Equal(t, int64(2), res.Mismatch.Seq)
	assert.Equal(t, int64(77), res.Mismatch.Stored)
	assert.Equal(t, int64(70), res.Mismatch.Expected)
	assert.Equal(t, 2, res.Movements, "se detiene en la primera diferencia")

	out := inventory.ReplayToDTO(res)
	require.NotNil(t, out.Mismatch)
	assert.Equal(t, "REPLAY_MISMATCH", out.Mismatch.Kind)

	findings, err := rc.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, inventory.FindingReplayMismatch, findings[0].Kind)
}

func TestReconciler_DerivaPorLotes(t *testing.T) {
	f := newFixture()
	f.catalog.Put(&entity.SKU{Code: "S1", Name: "Tornillo", MinStock: 50, MaxStock: 200, UnitCost: decimal.NewFromInt(100), IsActive: true, BatchTracked: true})
	seedMovements(t, f)
	bad := &corruptLedger{LedgerStore: f.ledger, latestBy: -4}

	findings, err := inventory.NewReconciler(bad, f.catalog, nil, zerolog.Nop(), 0).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, inventory.FindingBatchDrift, findings[0].Kind)
	assert.Equal(t, int64(46), findings[0].Stored)
	assert.Equal(t, int64(50), findings[0].Expected)
}

// ─── Vista por lotes ─────────────────────────────────────────────────────────

func TestBatchView_SaldosOrdenadosPorVencimiento(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	rec := f.recorder(f.ledger, inventory.RecorderConfig{})

	soon := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	for _, l := range []inventory.LineInput{
		{SKU: "S1", WarehouseID: "W1", Quantity: 40, BatchNumber: "L-2", ExpiryDate: &late},
		{SKU: "S1", WarehouseID: "W1", Quantity: 25, BatchNumber: "L-1", ExpiryDate: &soon},
		{SKU: "S1", WarehouseID: "W1", Quantity: 5},
	} {
		_, err := rec.ReceivePurchaseOrder(ctx, "PO-1", l)
		require.NoError(t, err)
	}
	_, err := rec.FulfillOrder(ctx, "O-1", inventory.LineInput{SKU: "S1", WarehouseID: "W1", Quantity: 10, BatchNumber: "L-1"})
	require.NoError(t, err)

	resp, err := inventory.NewQueryUseCase(f.ledger, 2).Batches(ctx, "S1", "W1")
	require.NoError(t, err)
	require.Len(t, resp.Batches, 3)
	assert.Equal(t, "L-1", resp.Batches[0].BatchNumber)
	assert.Equal(t, int64(15), resp.Batches[0].Quantity)
	assert.Equal(t, "L-2", resp.Batches[1].BatchNumber)
	assert.Equal(t, "", resp.Batches[2].BatchNumber)
	assert.Equal(t, int64(60), resp.Total)

	total, err := inventory.NewBatchView(f.ledger, 0).Total(ctx, "S1", "W1")
	require.NoError(t, err)
	assert.Equal(t, resp.Total, total)
}
