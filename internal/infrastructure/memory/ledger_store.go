// Package memory implementa los puertos del libro en memoria del proceso.
// Se usa en pruebas y con STORE_DRIVER=memory; no ofrece durabilidad.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerStore)(nil)

// LedgerStore libro append-only en memoria. Las filas se guardan en orden de inserción
// y nunca se modifican; a los llamadores solo se entregan copias.
type LedgerStore struct {
	mu      sync.RWMutex
	rows    []*entity.StockMovement
	byKey   map[entity.StockKey][]int
	byIdem  map[string]int
	byRef   map[entity.Reference][]int
	clock   func() time.Time
	nextSeq int64
}

// Option configura el LedgerStore.
type Option func(*LedgerStore)

// WithClock reemplaza el reloj usado para TransactionDate y CreatedAt.
func WithClock(clock func() time.Time) Option {
	return func(s *LedgerStore) { s.clock = clock }
}

// NewLedgerStore construye un libro vacío.
func NewLedgerStore(opts ...Option) *LedgerStore {
	s := &LedgerStore{
		byKey:  make(map[entity.StockKey][]int),
		byIdem: make(map[string]int),
		byRef:  make(map[entity.Reference][]int),
		clock:  func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append valida, verifica el saldo esperado y agrega la fila bajo el lock de escritura.
func (s *LedgerStore) Append(_ context.Context, m *entity.StockMovement, expectedBalance int64) error {
	if err := validateRow(m, expectedBalance); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := m.Key()
	var current int64
	var last *entity.StockMovement
	if idx := s.byKey[key]; len(idx) > 0 {
		last = s.rows[idx[len(idx)-1]]
		current = last.BalanceQuantity
	}
	if current != expectedBalance {
		return fmt.Errorf("%w: %s esperaba saldo %d, vigente %d", domain.ErrConcurrencyConflict, key, expectedBalance, current)
	}
	if m.IdempotencyKey != "" {
		if _, ok := s.byIdem[m.IdempotencyKey]; ok {
			return fmt.Errorf("%w: clave de idempotencia %q", domain.ErrDuplicate, m.IdempotencyKey)
		}
	}

	now := s.clock()
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	s.nextSeq++
	m.Seq = s.nextSeq
	m.CreatedAt = now
	m.TransactionDate = now
	// TransactionDate no retrocede dentro de una clave: el orden por fecha coincide con el de inserción.
	if last != nil && m.TransactionDate.Before(last.TransactionDate) {
		m.TransactionDate = last.TransactionDate
	}

	pos := len(s.rows)
	s.rows = append(s.rows, clone(m))
	s.byKey[key] = append(s.byKey[key], pos)
	s.byRef[m.Reference] = append(s.byRef[m.Reference], pos)
	if m.IdempotencyKey != "" {
		s.byIdem[m.IdempotencyKey] = pos
	}
	return nil
}

// Latest devuelve una copia del último movimiento de la clave o nil.
func (s *LedgerStore) Latest(_ context.Context, sku, warehouseID string) (*entity.StockMovement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.byKey[entity.StockKey{SKU: sku, WarehouseID: warehouseID}]
	if len(idx) == 0 {
		return nil, nil
	}
	return clone(s.rows[idx[len(idx)-1]]), nil
}

// LatestPerWarehouse último movimiento de cada bodega con movimientos del SKU.
func (s *LedgerStore) LatestPerWarehouse(_ context.Context, sku string) ([]*entity.StockMovement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*entity.StockMovement
	for key, idx := range s.byKey {
		if key.SKU != sku || len(idx) == 0 {
			continue
		}
		out = append(out, clone(s.rows[idx[len(idx)-1]]))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WarehouseID < out[j].WarehouseID })
	return out, nil
}

// History página del historial del SKU (opcionalmente de una bodega), más reciente primero.
func (s *LedgerStore) History(_ context.Context, q repository.HistoryQuery) (repository.MovementPage, error) {
	if q.SKU == "" {
		return repository.MovementPage{}, fmt.Errorf("%w: sku requerido", domain.ErrInvalidInput)
	}
	var (
		afterDate time.Time
		afterSeq  int64
		hasCursor bool
	)
	if q.Cursor != "" {
		d, seq, err := repository.DecodeCursor(q.Cursor)
		if err != nil {
			return repository.MovementPage{}, err
		}
		afterDate, afterSeq, hasCursor = d, seq, true
	}

	s.mu.RLock()
	var matches []*entity.StockMovement
	for _, m := range s.rows {
		if m.SKU != q.SKU || (q.WarehouseID != "" && m.WarehouseID != q.WarehouseID) {
			continue
		}
		if hasCursor && !olderThan(m, afterDate, afterSeq) {
			continue
		}
		matches = append(matches, m)
	}
	s.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		return olderThan(matches[j], matches[i].TransactionDate, matches[i].Seq)
	})

	page := repository.MovementPage{}
	limit := q.Limit
	if limit <= 0 {
		limit = len(matches)
	}
	for i, m := range matches {
		if i == limit {
			last := page.Movements[len(page.Movements)-1]
			page.NextCursor = repository.EncodeCursor(last.TransactionDate, last.Seq)
			break
		}
		page.Movements = append(page.Movements, clone(m))
	}
	return page, nil
}

// Scan recorre en orden de inserción (coincide con el cronológico por clave) sin retener
// el lock mientras se ejecuta fn.
func (s *LedgerStore) Scan(ctx context.Context, f repository.MovementFilter, pageSize int, fn func([]*entity.StockMovement) error) error {
	if pageSize <= 0 {
		pageSize = 500
	}
	pos := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		page := make([]*entity.StockMovement, 0, pageSize)
		s.mu.RLock()
		for pos < len(s.rows) && len(page) < pageSize {
			m := s.rows[pos]
			pos++
			if matchesFilter(m, f) {
				page = append(page, clone(m))
			}
		}
		done := pos >= len(s.rows)
		s.mu.RUnlock()

		if len(page) > 0 {
			if err := fn(page); err != nil {
				return err
			}
		}
		if done {
			return nil
		}
	}
}

// FindByReference movimientos de un documento en orden de inserción.
func (s *LedgerStore) FindByReference(_ context.Context, ref entity.Reference) ([]*entity.StockMovement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.byRef[ref]
	out := make([]*entity.StockMovement, 0, len(idx))
	for _, i := range idx {
		out = append(out, clone(s.rows[i]))
	}
	return out, nil
}

// FindByIdempotencyKey movimiento registrado con la clave o nil.
func (s *LedgerStore) FindByIdempotencyKey(_ context.Context, key string) (*entity.StockMovement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byIdem[key]
	if !ok {
		return nil, nil
	}
	return clone(s.rows[i]), nil
}

// Keys pares (sku, bodega) con movimientos, ordenados.
func (s *LedgerStore) Keys(_ context.Context) ([]entity.StockKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]entity.StockKey, 0, len(s.byKey))
	for k := range s.byKey {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].SKU != keys[j].SKU {
			return keys[i].SKU < keys[j].SKU
		}
		return keys[i].WarehouseID < keys[j].WarehouseID
	})
	return keys, nil
}

// Len cantidad total de filas (útil en pruebas).
func (s *LedgerStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

func validateRow(m *entity.StockMovement, expectedBalance int64) error {
	switch {
	case m == nil:
		return fmt.Errorf("%w: movimiento nulo", domain.ErrInvalidInput)
	case m.SKU == "" || m.WarehouseID == "":
		return fmt.Errorf("%w: sku y bodega requeridos", domain.ErrInvalidInput)
	case !m.Type.Valid():
		return fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, m.Type)
	case !m.Reference.Type.Valid():
		return fmt.Errorf("%w: tipo de referencia %q", domain.ErrInvalidInput, m.Reference.Type)
	case m.BalanceQuantity != expectedBalance+m.SignedQuantity():
		return fmt.Errorf("%w: saldo %d no corresponde a %d%+d", domain.ErrInvalidInput, m.BalanceQuantity, expectedBalance, m.SignedQuantity())
	}
	return nil
}

func matchesFilter(m *entity.StockMovement, f repository.MovementFilter) bool {
	if f.SKU != "" && m.SKU != f.SKU {
		return false
	}
	if f.WarehouseID != "" && m.WarehouseID != f.WarehouseID {
		return false
	}
	if f.BatchNumber != "" && m.BatchNumber != f.BatchNumber {
		return false
	}
	if f.WithExpiry && m.ExpiryDate == nil {
		return false
	}
	if f.From != nil && m.TransactionDate.Before(*f.From) {
		return false
	}
	if f.To != nil && !m.TransactionDate.Before(*f.To) {
		return false
	}
	if len(f.Types) > 0 {
		for _, t := range f.Types {
			if m.Type == t {
				return true
			}
		}
		return false
	}
	return true
}

// olderThan true si m es estrictamente anterior a la posición (date, seq).
func olderThan(m *entity.StockMovement, date time.Time, seq int64) bool {
	if !m.TransactionDate.Equal(date) {
		return m.TransactionDate.Before(date)
	}
	return m.Seq < seq
}

func clone(m *entity.StockMovement) *entity.StockMovement {
	c := *m
	if m.ExpiryDate != nil {
		d := *m.ExpiryDate
		c.ExpiryDate = &d
	}
	return &c
}
