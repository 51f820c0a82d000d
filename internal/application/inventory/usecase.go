package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

const (
	defaultMaxRetries = 5
	adjustmentPrefix  = "ADJ"
)

// RecorderDeps dependencias del registrador de movimientos.
type RecorderDeps struct {
	Ledger     repository.LedgerRepository
	Catalog    repository.CatalogRepository
	Warehouses repository.WarehouseRepository
	Sequences  repository.SequenceAllocator
	Locker     KeyLocker
	Metrics    RecorderMetrics // opcional
	Logger     zerolog.Logger
}

// RecorderConfig parámetros del registrador.
type RecorderConfig struct {
	MaxRetries int // reintentos ante conflicto de concurrencia (0 = valor por defecto)
	Policy     domaininv.BalancePolicy
}

// MovementRecorder es el único que escribe en el libro. Valida, calcula el saldo
// resultante y agrega la fila; el ciclo leer-calcular-escribir se serializa por
// (sku, bodega) con el KeyLocker y además el Append verifica el saldo leído.
type MovementRecorder struct {
	ledger     repository.LedgerRepository
	catalog    repository.CatalogRepository
	warehouses repository.WarehouseRepository
	sequences  repository.SequenceAllocator
	locker     KeyLocker
	resolver   *BalanceResolver
	metrics    RecorderMetrics
	log        zerolog.Logger
	cfg        RecorderConfig
}

// NewMovementRecorder construye el caso de uso.
func NewMovementRecorder(deps RecorderDeps, cfg RecorderConfig) *MovementRecorder {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &MovementRecorder{
		ledger:     deps.Ledger,
		catalog:    deps.Catalog,
		warehouses: deps.Warehouses,
		sequences:  deps.Sequences,
		locker:     deps.Locker,
		resolver:   NewBalanceResolver(deps.Ledger),
		metrics:    metrics,
		log:        deps.Logger,
		cfg:        cfg,
	}
}

// MovementInput entrada para registrar un movimiento.
// Quantity es la magnitud; solo en ADJUSTMENT puede ser negativa.
type MovementInput struct {
	SKU            string
	WarehouseID    string
	Type           entity.MovementType
	Quantity       int64
	Reference      entity.Reference
	UserID         string
	Location       string
	BatchNumber    string
	ExpiryDate     *time.Time
	Remarks        string
	IdempotencyKey string
}

// RecordMovement registra un movimiento y devuelve la fila almacenada.
// Falla con domain.ErrInsufficientStock (sin escribir nada) si una salida dejaría el
// saldo negativo, y con domain.ErrConcurrencyConflict si se agotan los reintentos;
// en ese caso el llamador puede reintentar con la misma clave de idempotencia.
func (uc *MovementRecorder) RecordMovement(ctx context.Context, in MovementInput) (*entity.StockMovement, error) {
	if err := validateInput(in); err != nil {
		uc.metrics.MovementRejected(in.Type, "validation")
		return nil, err
	}

	if in.IdempotencyKey != "" {
		if prev, err := uc.replayed(ctx, in); prev != nil || err != nil {
			return prev, err
		}
	}

	if err := uc.checkReferences(ctx, in); err != nil {
		uc.metrics.MovementRejected(in.Type, "not_found")
		return nil, err
	}

	key := entity.StockKey{SKU: in.SKU, WarehouseID: in.WarehouseID}
	unlock, err := uc.locker.Lock(ctx, key.String())
	if err != nil {
		return nil, fmt.Errorf("serializar %s: %w", key, err)
	}
	defer unlock()

	requested := in
	for attempt := 0; attempt <= uc.cfg.MaxRetries; attempt++ {
		mov, err := uc.tryAppend(ctx, &in)
		switch {
		case err == nil:
			uc.metrics.MovementRecorded(in.Type)
			uc.log.Debug().
				Str("sku", mov.SKU).
				Str("warehouse_id", mov.WarehouseID).
				Str("type", string(mov.Type)).
				Int64("quantity", mov.Quantity).
				Int64("balance", mov.BalanceQuantity).
				Msg("movimiento registrado")
			return mov, nil
		case errors.Is(err, domain.ErrInsufficientStock):
			uc.metrics.MovementRejected(in.Type, "insufficient_stock")
			uc.log.Info().Err(err).Str("sku", in.SKU).Str("warehouse_id", in.WarehouseID).Msg("salida rechazada")
			return nil, err
		case errors.Is(err, domain.ErrDuplicate) && in.IdempotencyKey != "":
			// Otra solicitud con la misma clave ganó la carrera.
			if prev, rerr := uc.replayed(ctx, requested); prev != nil || rerr != nil {
				return prev, rerr
			}
			return nil, err
		case errors.Is(err, domain.ErrConcurrencyConflict):
			uc.metrics.ConflictRetried()
			uc.log.Warn().Err(err).Int("attempt", attempt+1).Str("key", key.String()).Msg("conflicto de concurrencia, reintentando")
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
		default:
			return nil, err
		}
	}
	uc.metrics.MovementRejected(in.Type, "conflict")
	return nil, fmt.Errorf("%w: %d reintentos agotados para %s", domain.ErrConcurrencyConflict, uc.cfg.MaxRetries, key)
}

// tryAppend un ciclo leer-calcular-escribir. El consecutivo ADJ se pide solo cuando el
// saldo ya fue aceptado y se conserva entre reintentos.
func (uc *MovementRecorder) tryAppend(ctx context.Context, in *MovementInput) (*entity.StockMovement, error) {
	current, err := uc.resolver.CurrentBalance(ctx, in.SKU, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	next, err := uc.cfg.Policy.NewBalance(current, in.Type, in.Quantity)
	if err != nil {
		return nil, err
	}
	if in.Reference.Type == entity.ReferenceAdjustment && in.Reference.ID == "" {
		code, err := uc.sequences.Next(ctx, adjustmentPrefix)
		if err != nil {
			return nil, fmt.Errorf("asignar consecutivo de ajuste: %w", err)
		}
		in.Reference.ID = code
	}
	mov := &entity.StockMovement{
		SKU:             in.SKU,
		WarehouseID:     in.WarehouseID,
		Location:        in.Location,
		Type:            in.Type,
		Quantity:        in.Quantity,
		BatchNumber:     in.BatchNumber,
		ExpiryDate:      in.ExpiryDate,
		Reference:       in.Reference,
		BalanceQuantity: next,
		UserID:          in.UserID,
		Remarks:         in.Remarks,
		IdempotencyKey:  in.IdempotencyKey,
	}
	if err := uc.ledger.Append(ctx, mov, current); err != nil {
		return nil, err
	}
	return mov, nil
}

// replayed devuelve el movimiento ya registrado con la clave de idempotencia, o nil.
// Reusar la clave para otro documento es un error del llamador.
func (uc *MovementRecorder) replayed(ctx context.Context, in MovementInput) (*entity.StockMovement, error) {
	prev, err := uc.ledger.FindByIdempotencyKey(ctx, in.IdempotencyKey)
	if err != nil || prev == nil {
		return nil, err
	}
	sameDoc := prev.Reference.Type == in.Reference.Type &&
		(in.Reference.ID == "" || prev.Reference.ID == in.Reference.ID)
	if !sameDoc || prev.SKU != in.SKU || prev.WarehouseID != in.WarehouseID {
		return nil, fmt.Errorf("%w: clave de idempotencia %q usada por otro movimiento", domain.ErrDuplicate, in.IdempotencyKey)
	}
	return prev, nil
}

func (uc *MovementRecorder) checkReferences(ctx context.Context, in MovementInput) error {
	sku, err := uc.catalog.GetByCode(ctx, in.SKU)
	if err != nil {
		return fmt.Errorf("consultar sku %s: %w", in.SKU, err)
	}
	if sku == nil {
		return fmt.Errorf("%w: sku %s", domain.ErrNotFound, in.SKU)
	}
	wh, err := uc.warehouses.GetByID(ctx, in.WarehouseID)
	if err != nil {
		return fmt.Errorf("consultar bodega %s: %w", in.WarehouseID, err)
	}
	if wh == nil {
		return fmt.Errorf("%w: bodega %s", domain.ErrNotFound, in.WarehouseID)
	}
	return nil
}

func validateInput(in MovementInput) error {
	if in.SKU == "" || in.WarehouseID == "" {
		return fmt.Errorf("%w: sku y bodega son obligatorios", domain.ErrInvalidInput)
	}
	if err := domaininv.ValidateQuantity(in.Type, in.Quantity); err != nil {
		return err
	}
	if !in.Reference.Type.Valid() {
		return fmt.Errorf("%w: tipo de referencia %q", domain.ErrInvalidInput, in.Reference.Type)
	}
	if in.Reference.ID == "" && in.Reference.Type != entity.ReferenceAdjustment {
		return fmt.Errorf("%w: referencia %s sin id", domain.ErrInvalidInput, in.Reference.Type)
	}
	if in.ExpiryDate != nil && !in.Type.IsInbound() && in.Type != entity.MovementAdjustment {
		return fmt.Errorf("%w: fecha de vencimiento solo aplica a entradas", domain.ErrInvalidInput)
	}
	return nil
}
