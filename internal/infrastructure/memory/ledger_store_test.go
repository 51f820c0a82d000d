package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
)

var fixedNow = time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

func mov(typ entity.MovementType, qty, balance int64, ref entity.Reference) *entity.StockMovement {
	return &entity.StockMovement{
		SKU: "S1", WarehouseID: "W1", Type: typ, Quantity: qty,
		BalanceQuantity: balance, Reference: ref,
	}
}

func TestAppend_AsignaIDSeqYFecha(t *testing.T) {
	ctx := context.Background()
	s := memory.NewLedgerStore(memory.WithClock(func() time.Time { return fixedNow }))

	m := mov(entity.MovementInward, 100, 100, entity.PurchaseOrderRef("PO-1"))
	require.NoError(t, s.Append(ctx, m, 0))

	assert.NotEmpty(t, m.ID)
	assert.Equal(t, int64(1), m.Seq)
	assert.True(t, m.TransactionDate.Equal(fixedNow))

	latest, err := s.Latest(ctx, "S1", "W1")
	require.NoError(t, err)
	assert.Equal(t, m.ID, latest.ID)
	assert.Equal(t, int64(100), latest.BalanceQuantity)
}

func TestAppend_SaldoEsperadoDesactualizado(t *testing.T) {
	ctx := context.Background()
	s := memory.NewLedgerStore()
	require.NoError(t, s.Append(ctx, mov(entity.MovementInward, 100, 100, entity.PurchaseOrderRef("PO-1")), 0))

	err := s.Append(ctx, mov(entity.MovementOutward, 10, -10, entity.OrderRef("O-1")), 0)
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.Equal(t, 1, s.Len())
}

func TestAppend_RechazaSaldoQueNoCuadra(t *testing.T) {
	s := memory.NewLedgerStore()
	err := s.Append(context.Background(), mov(entity.MovementInward, 100, 90, entity.PurchaseOrderRef("PO-1")), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, s.Len())
}

func TestAppend_ClaveDeIdempotenciaRepetida(t *testing.T) {
	ctx := context.Background()
	s := memory.NewLedgerStore()

	first := mov(entity.MovementInward, 10, 10, entity.PurchaseOrderRef("PO-1"))
	first.IdempotencyKey = "k-1"
	require.NoError(t, s.Append(ctx, first, 0))

	again := mov(entity.MovementInward, 10, 20, entity.PurchaseOrderRef("PO-1"))
	again.IdempotencyKey = "k-1"
	assert.ErrorIs(t, s.Append(ctx, again, 10), domain.ErrDuplicate)

	found, err := s.FindByIdempotencyKey(ctx, "k-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, first.ID, found.ID)

	missing, err := s.FindByIdempotencyKey(ctx, "otra")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestLatest_EntregaCopias(t *testing.T) {
	ctx := context.Background()
	s := memory.NewLedgerStore()
	require.NoError(t, s.Append(ctx, mov(entity.MovementInward, 5, 5, entity.PurchaseOrderRef("PO-1")), 0))

	got, err := s.Latest(ctx, "S1", "W1")
	require.NoError(t, err)
	got.BalanceQuantity = 999

	again, err := s.Latest(ctx, "S1", "W1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), again.BalanceQuantity)
}

// ──────────────────────────────────────────────────────────────────────────────

func seedLedger(t *testing.T, s *memory.LedgerStore, n int) {
	t.Helper()
	var bal int64
	for i := 0; i < n; i++ {
		bal += 10
		require.NoError(t, s.Append(context.Background(), mov(entity.MovementInward, 10, bal, entity.PurchaseOrderRef("PO-1")), bal-10))
	}
}

func TestHistory_PaginaConCursorSinSolapes(t *testing.T) {
	ctx := context.Background()
	// Mismo instante para todas las filas: el Seq desempata.
	s := memory.NewLedgerStore(memory.WithClock(func() time.Time { return fixedNow }))
	seedLedger(t, s, 5)

	page1, err := s.History(ctx, repository.HistoryQuery{SKU: "S1", Limit: 2})
	require.NoError(t, err)
	require.Len(t, page1.Movements, 2)
	assert.Equal(t, int64(5), page1.Movements[0].Seq)
	assert.Equal(t, int64(4), page1.Movements[1].Seq)
	require.NotEmpty(t, page1.NextCursor)

	page2, err := s.History(ctx, repository.HistoryQuery{SKU: "S1", Limit: 2, Cursor: page1.NextCursor})
	require.NoError(t, err)
	require.Len(t, page2.Movements, 2)
	assert.Equal(t, int64(3), page2.Movements[0].Seq)

	page3, err := s.History(ctx, repository.HistoryQuery{SKU: "S1", Limit: 2, Cursor: page2.NextCursor})
	require.NoError(t, err)
	require.Len(t, page3.Movements, 1)
	assert.Equal(t, int64(1), page3.Movements[0].Seq)
	assert.Empty(t, page3.NextCursor)
}

func TestHistory_CursorInvalido(t *testing.T) {
	s := memory.NewLedgerStore()
	_, err := s.History(context.Background(), repository.HistoryQuery{SKU: "S1", Cursor: "%%"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestScan_FiltraYPagina(t *testing.T) {
	ctx := context.Background()
	s := memory.NewLedgerStore()
	seedLedger(t, s, 4)
	require.NoError(t, s.Append(ctx, mov(entity.MovementOutward, 15, 25, entity.OrderRef("O-1")), 40))

	var pages, rows int
	err := s.Scan(ctx, repository.MovementFilter{SKU: "S1", Types: []entity.MovementType{entity.MovementInward}}, 3,
		func(page []*entity.StockMovement) error {
			pages++
			rows += len(page)
			for _, m := range page {
				assert.Equal(t, entity.MovementInward, m.Type)
			}
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, 4, rows)
	assert.Equal(t, 2, pages)
}

func TestFindByReferenceYKeys(t *testing.T) {
	ctx := context.Background()
	s := memory.NewLedgerStore()
	require.NoError(t, s.Append(ctx, mov(entity.MovementInward, 10, 10, entity.PurchaseOrderRef("PO-7")), 0))
	other := mov(entity.MovementInward, 3, 3, entity.PurchaseOrderRef("PO-7"))
	other.WarehouseID = "W2"
	require.NoError(t, s.Append(ctx, other, 0))

	rows, err := s.FindByReference(ctx, entity.PurchaseOrderRef("PO-7"))
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entity.StockKey{{SKU: "S1", WarehouseID: "W1"}, {SKU: "S1", WarehouseID: "W2"}}, keys)

	perWh, err := s.LatestPerWarehouse(ctx, "S1")
	require.NoError(t, err)
	require.Len(t, perWh, 2)
	assert.Equal(t, "W1", perWh[0].WarehouseID)
}
