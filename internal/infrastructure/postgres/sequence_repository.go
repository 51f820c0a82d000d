package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	domaininv "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.SequenceAllocator = (*SequenceRepo)(nil)

// SequenceRepo consecutivos de documentos. El upsert con RETURNING es atómico: dos llamadas
// concurrentes nunca reciben el mismo número.
type SequenceRepo struct {
	pool *pgxpool.Pool
}

// NewSequenceRepository construye el adaptador.
func NewSequenceRepository(pool *pgxpool.Pool) *SequenceRepo {
	return &SequenceRepo{pool: pool}
}

// Next siguiente código del prefijo, p. ej. ADJ-000042.
func (r *SequenceRepo) Next(ctx context.Context, prefix string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("%w: prefijo vacío", domain.ErrInvalidInput)
	}
	var n int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO document_sequences (prefix, value) VALUES ($1, 1)
		ON CONFLICT (prefix) DO UPDATE SET value = document_sequences.value + 1
		RETURNING value`, prefix).Scan(&n)
	if err != nil {
		return "", fmt.Errorf("siguiente consecutivo %s: %w", prefix, err)
	}
	return domaininv.FormatSequence(prefix, n), nil
}
