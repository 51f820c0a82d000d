package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

const (
	movementColumns = `id, seq, sku, warehouse_id, location, movement_type, quantity, batch_number,
		expiry_date, reference_type, reference_id, balance_quantity, user_id, remarks,
		idempotency_key, transaction_date, created_at`
	defaultScanPage = 500
)

// LedgerRepo libro de movimientos sobre PostgreSQL.
//
// stock_movements es append-only (un trigger rechaza UPDATE/DELETE). stock_balances guarda el
// último saldo de cada (sku, bodega) y es la fila que se bloquea con SELECT ... FOR UPDATE para
// verificar el saldo esperado y agregar el movimiento en la misma transacción.
type LedgerRepo struct {
	pool *pgxpool.Pool
	tx   *TxRunner
	now  func() time.Time
}

// NewLedgerRepository construye el adaptador.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepo {
	return &LedgerRepo{
		pool: pool,
		tx:   NewTxRunner(pool),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Append bloquea el saldo de la clave, verifica expectedBalance, inserta el movimiento y
// actualiza el saldo. Todo o nada.
func (r *LedgerRepo) Append(ctx context.Context, m *entity.StockMovement, expectedBalance int64) error {
	if m == nil || m.SKU == "" || m.WarehouseID == "" || !m.Type.Valid() || !m.Reference.Type.Valid() {
		return fmt.Errorf("%w: movimiento incompleto", domain.ErrInvalidInput)
	}
	if m.BalanceQuantity != expectedBalance+m.SignedQuantity() {
		return fmt.Errorf("%w: saldo %d no corresponde a %d%+d", domain.ErrInvalidInput, m.BalanceQuantity, expectedBalance, m.SignedQuantity())
	}

	row := *m
	if row.ID == "" {
		row.ID = uuid.New().String()
	}

	err := r.tx.Run(ctx, func(q Querier) error {
		if _, err := q.Exec(ctx, `
			INSERT INTO stock_balances (sku, warehouse_id, balance, last_seq)
			VALUES ($1, $2, 0, 0)
			ON CONFLICT (sku, warehouse_id) DO NOTHING`, row.SKU, row.WarehouseID); err != nil {
			return fmt.Errorf("crear saldo: %w", err)
		}

		var (
			current  int64
			lastDate *time.Time
		)
		err := q.QueryRow(ctx, `
			SELECT balance, last_transaction_date
			FROM stock_balances
			WHERE sku = $1 AND warehouse_id = $2
			FOR UPDATE`, row.SKU, row.WarehouseID).Scan(&current, &lastDate)
		if err != nil {
			return fmt.Errorf("bloquear saldo: %w", err)
		}
		if current != expectedBalance {
			return fmt.Errorf("%w: %s esperaba saldo %d, vigente %d", domain.ErrConcurrencyConflict, row.Key(), expectedBalance, current)
		}

		// timestamptz guarda microsegundos; la fecha no retrocede dentro de la clave.
		row.TransactionDate = r.now().Truncate(time.Microsecond)
		if lastDate != nil && row.TransactionDate.Before(*lastDate) {
			row.TransactionDate = *lastDate
		}

		err = q.QueryRow(ctx, `
			INSERT INTO stock_movements (id, sku, warehouse_id, location, movement_type, quantity,
				batch_number, expiry_date, reference_type, reference_id, balance_quantity,
				user_id, remarks, idempotency_key, transaction_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			RETURNING seq, created_at`,
			row.ID, row.SKU, row.WarehouseID, row.Location, string(row.Type), row.Quantity,
			row.BatchNumber, row.ExpiryDate, string(row.Reference.Type), row.Reference.ID,
			row.BalanceQuantity, row.UserID, row.Remarks, nullableString(row.IdempotencyKey),
			row.TransactionDate,
		).Scan(&row.Seq, &row.CreatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: clave de idempotencia %q", domain.ErrDuplicate, row.IdempotencyKey)
			}
			return fmt.Errorf("insertar movimiento: %w", err)
		}

		_, err = q.Exec(ctx, `
			UPDATE stock_balances
			SET balance = $3, last_seq = $4, last_transaction_date = $5, updated_at = now()
			WHERE sku = $1 AND warehouse_id = $2`,
			row.SKU, row.WarehouseID, row.BalanceQuantity, row.Seq, row.TransactionDate)
		if err != nil {
			return fmt.Errorf("actualizar saldo: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	*m = row
	return nil
}

// Latest último movimiento de la clave o nil.
func (r *LedgerRepo) Latest(ctx context.Context, sku, warehouseID string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE sku = $1 AND warehouse_id = $2
		ORDER BY transaction_date DESC, seq DESC
		LIMIT 1`
	m, err := scanMovement(r.pool.QueryRow(ctx, query, sku, warehouseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("último movimiento: %w", err)
	}
	return m, nil
}

// LatestPerWarehouse último movimiento de cada bodega del SKU (DISTINCT ON).
func (r *LedgerRepo) LatestPerWarehouse(ctx context.Context, sku string) ([]*entity.StockMovement, error) {
	query := `SELECT DISTINCT ON (warehouse_id) ` + movementColumns + `
		FROM stock_movements
		WHERE sku = $1
		ORDER BY warehouse_id, transaction_date DESC, seq DESC`
	return r.list(ctx, query, sku)
}

// History página del historial, más reciente primero, con cursor por (transaction_date, seq).
func (r *LedgerRepo) History(ctx context.Context, q repository.HistoryQuery) (repository.MovementPage, error) {
	if q.SKU == "" {
		return repository.MovementPage{}, fmt.Errorf("%w: sku requerido", domain.ErrInvalidInput)
	}
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE sku = $1`
	args := []any{q.SKU}
	pos := 2
	if q.WarehouseID != "" {
		query += fmt.Sprintf(" AND warehouse_id = $%d", pos)
		args = append(args, q.WarehouseID)
		pos++
	}
	if q.Cursor != "" {
		date, seq, err := repository.DecodeCursor(q.Cursor)
		if err != nil {
			return repository.MovementPage{}, err
		}
		query += fmt.Sprintf(" AND (transaction_date, seq) < ($%d, $%d)", pos, pos+1)
		args = append(args, date, seq)
		pos += 2
	}
	query += " ORDER BY transaction_date DESC, seq DESC"
	if q.Limit > 0 {
		// Uno extra para saber si hay otra página.
		query += fmt.Sprintf(" LIMIT $%d", pos)
		args = append(args, q.Limit+1)
	}

	rows, err := r.list(ctx, query, args...)
	if err != nil {
		return repository.MovementPage{}, err
	}
	page := repository.MovementPage{Movements: rows}
	if q.Limit > 0 && len(rows) > q.Limit {
		page.Movements = rows[:q.Limit]
		last := page.Movements[q.Limit-1]
		page.NextCursor = repository.EncodeCursor(last.TransactionDate, last.Seq)
	}
	return page, nil
}

// Scan recorre en orden (transaction_date, seq) con paginación por keyset; cada página es
// una consulta independiente, sin transacción abierta entre páginas.
func (r *LedgerRepo) Scan(ctx context.Context, f repository.MovementFilter, pageSize int, fn func([]*entity.StockMovement) error) error {
	if pageSize <= 0 {
		pageSize = defaultScanPage
	}
	where, args := scanFilter(f)

	var (
		afterDate time.Time
		afterSeq  int64
		started   bool
	)
	for {
		query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE ` + where
		pageArgs := append([]any{}, args...)
		if started {
			query += fmt.Sprintf(" AND (transaction_date, seq) > ($%d, $%d)", len(pageArgs)+1, len(pageArgs)+2)
			pageArgs = append(pageArgs, afterDate, afterSeq)
		}
		query += fmt.Sprintf(" ORDER BY transaction_date, seq LIMIT $%d", len(pageArgs)+1)
		pageArgs = append(pageArgs, pageSize)

		page, err := r.list(ctx, query, pageArgs...)
		if err != nil {
			return err
		}
		if len(page) == 0 {
			return nil
		}
		if err := fn(page); err != nil {
			return err
		}
		if len(page) < pageSize {
			return nil
		}
		last := page[len(page)-1]
		afterDate, afterSeq, started = last.TransactionDate, last.Seq, true
	}
}

// FindByReference movimientos de un documento en orden de inserción.
func (r *LedgerRepo) FindByReference(ctx context.Context, ref entity.Reference) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE reference_type = $1 AND reference_id = $2
		ORDER BY seq`
	return r.list(ctx, query, string(ref.Type), ref.ID)
}

// FindByIdempotencyKey movimiento registrado con la clave o nil.
func (r *LedgerRepo) FindByIdempotencyKey(ctx context.Context, key string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE idempotency_key = $1`
	m, err := scanMovement(r.pool.QueryRow(ctx, query, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("buscar por idempotencia: %w", err)
	}
	return m, nil
}

// Keys claves con al menos un movimiento.
func (r *LedgerRepo) Keys(ctx context.Context) ([]entity.StockKey, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT sku, warehouse_id FROM stock_balances
		WHERE last_seq > 0
		ORDER BY sku, warehouse_id`)
	if err != nil {
		return nil, fmt.Errorf("listar claves: %w", err)
	}
	defer rows.Close()
	var keys []entity.StockKey
	for rows.Next() {
		var k entity.StockKey
		if err := rows.Scan(&k.SKU, &k.WarehouseID); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (r *LedgerRepo) list(ctx context.Context, query string, args ...any) ([]*entity.StockMovement, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("consultar movimientos: %w", err)
	}
	defer rows.Close()
	var out []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanMovement(row rowScanner) (*entity.StockMovement, error) {
	var (
		m       entity.StockMovement
		movType string
		refType string
		idemKey *string
	)
	err := row.Scan(
		&m.ID, &m.Seq, &m.SKU, &m.WarehouseID, &m.Location, &movType, &m.Quantity, &m.BatchNumber,
		&m.ExpiryDate, &refType, &m.Reference.ID, &m.BalanceQuantity, &m.UserID, &m.Remarks,
		&idemKey, &m.TransactionDate, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Type = entity.MovementType(movType)
	m.Reference.Type = entity.ReferenceType(refType)
	if idemKey != nil {
		m.IdempotencyKey = *idemKey
	}
	return &m, nil
}

// scanFilter arma el WHERE (sin paginación) de un MovementFilter.
func scanFilter(f repository.MovementFilter) (string, []any) {
	conds := []string{"TRUE"}
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.SKU != "" {
		add("sku = $%d", f.SKU)
	}
	if f.WarehouseID != "" {
		add("warehouse_id = $%d", f.WarehouseID)
	}
	if f.BatchNumber != "" {
		add("batch_number = $%d", f.BatchNumber)
	}
	if len(f.Types) > 0 {
		types := make([]string, len(f.Types))
		for i, t := range f.Types {
			types[i] = string(t)
		}
		add("movement_type = ANY($%d)", types)
	}
	if f.From != nil {
		add("transaction_date >= $%d", *f.From)
	}
	if f.To != nil {
		add("transaction_date < $%d", *f.To)
	}
	if f.WithExpiry {
		conds = append(conds, "expiry_date IS NOT NULL")
	}
	return strings.Join(conds, " AND "), args
}
