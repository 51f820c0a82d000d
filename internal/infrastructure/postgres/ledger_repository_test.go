package postgres

import (
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

func TestScanFilter_SinFiltros(t *testing.T) {
	where, args := scanFilter(repository.MovementFilter{})
	assert.Equal(t, "TRUE", where)
	assert.Empty(t, args)
}

func TestScanFilter_NumeraParametrosEnOrden(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)
	where, args := scanFilter(repository.MovementFilter{
		SKU:        "S1",
		Types:      []entity.MovementType{entity.MovementOutward, entity.MovementTransferOut},
		From:       &from,
		To:         &to,
		WithExpiry: true,
	})

	assert.Equal(t,
		"TRUE AND sku = $1 AND movement_type = ANY($2) AND transaction_date >= $3 AND transaction_date < $4 AND expiry_date IS NOT NULL",
		where)
	assert.Equal(t, []any{"S1", []string{"OUTWARD", "TRANSFER_OUT"}, from, to}, args)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "40001"}))
	assert.False(t, isUniqueViolation(fmt.Errorf("otro")))
	assert.Nil(t, nullableString(""))
	assert.Equal(t, "x", *nullableString("x"))
}
