package inventory_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

func TestNewBalance_EfectoPorTipo(t *testing.T) {
	p := inventory.BalancePolicy{}
	cases := []struct {
		name    string
		current int64
		typ     entity.MovementType
		qty     int64
		want    int64
	}{
		{"entrada suma", 10, entity.MovementInward, 5, 15},
		{"traslado entrante suma", 10, entity.MovementTransferIn, 5, 15},
		{"salida resta", 10, entity.MovementOutward, 4, 6},
		{"traslado saliente resta", 10, entity.MovementTransferOut, 10, 0},
		{"ajuste positivo", 10, entity.MovementAdjustment, 3, 13},
		{"ajuste negativo", 10, entity.MovementAdjustment, -3, 7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := p.NewBalance(tc.current, tc.typ, tc.qty)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNewBalance_SalidaNuncaNegativa(t *testing.T) {
	p := inventory.BalancePolicy{AllowNegativeAdjustment: true}

	got, err := p.NewBalance(5, entity.MovementOutward, 6)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(5), got, "el saldo no cambia si se rechaza")

	_, err = p.NewBalance(0, entity.MovementTransferOut, 1)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestNewBalance_AjusteNegativoSegunPolitica(t *testing.T) {
	permisiva := inventory.BalancePolicy{AllowNegativeAdjustment: true}
	got, err := permisiva.NewBalance(2, entity.MovementAdjustment, -5)
	require.NoError(t, err)
	assert.Equal(t, int64(-3), got)

	estricta := inventory.BalancePolicy{}
	_, err = estricta.NewBalance(2, entity.MovementAdjustment, -5)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestValidateQuantity(t *testing.T) {
	assert.NoError(t, inventory.ValidateQuantity(entity.MovementInward, 1))
	assert.ErrorIs(t, inventory.ValidateQuantity(entity.MovementInward, 0), domain.ErrInvalidInput)
	assert.ErrorIs(t, inventory.ValidateQuantity(entity.MovementOutward, -1), domain.ErrInvalidInput)
	assert.NoError(t, inventory.ValidateQuantity(entity.MovementAdjustment, -7))
	assert.ErrorIs(t, inventory.ValidateQuantity(entity.MovementAdjustment, 0), domain.ErrInvalidInput)
	assert.ErrorIs(t, inventory.ValidateQuantity(entity.MovementType("LOAN"), 1), domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────

func TestNewBalance_RechazaDesbordamiento(t *testing.T) {
	p := inventory.BalancePolicy{AllowNegativeAdjustment: true}

	got, err := p.NewBalance(1, entity.MovementInward, math.MaxInt64)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, int64(1), got)

	_, err = p.NewBalance(-1, entity.MovementAdjustment, math.MinInt64)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err = p.NewBalance(math.MaxInt64-5, entity.MovementInward, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), got)
}

func TestValidateQuantity_TopeMaximo(t *testing.T) {
	assert.NoError(t, inventory.ValidateQuantity(entity.MovementInward, inventory.MaxQuantity))
	assert.ErrorIs(t, inventory.ValidateQuantity(entity.MovementInward, inventory.MaxQuantity+1), domain.ErrInvalidInput)
	assert.ErrorIs(t, inventory.ValidateQuantity(entity.MovementOutward, math.MaxInt64), domain.ErrInvalidInput)
	assert.ErrorIs(t, inventory.ValidateQuantity(entity.MovementAdjustment, -inventory.MaxQuantity-1), domain.ErrInvalidInput)
}

func row(id string, seq int64, typ entity.MovementType, qty, balance int64) *entity.StockMovement {
	return &entity.StockMovement{ID: id, Seq: seq, Type: typ, Quantity: qty, BalanceQuantity: balance}
}

func TestReplay_HistorialConsistente(t *testing.T) {
	bal, mismatch := inventory.Replay([]*entity.StockMovement{
		row("m1", 1, entity.MovementInward, 100, 100),
		row("m2", 2, entity.MovementOutward, 30, 70),
		row("m3", 3, entity.MovementAdjustment, -5, 65),
		row("m4", 4, entity.MovementTransferIn, 10, 75),
	})
	assert.Nil(t, mismatch)
	assert.Equal(t, int64(75), bal)
}

func TestReplay_DetectaPrimeraDiferencia(t *testing.T) {
	bal, mismatch := inventory.Replay([]*entity.StockMovement{
		row("m1", 1, entity.MovementInward, 100, 100),
		row("m2", 2, entity.MovementOutward, 30, 60),
		row("m3", 3, entity.MovementOutward, 10, 50),
	})
	require.NotNil(t, mismatch)
	assert.Equal(t, "m2", mismatch.MovementID)
	assert.Equal(t, int64(60), mismatch.Stored)
	assert.Equal(t, int64(70), mismatch.Expected)
	assert.Equal(t, int64(70), bal)
}
