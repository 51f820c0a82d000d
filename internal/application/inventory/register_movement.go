package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// LineInput línea de un documento de negocio que mueve inventario.
type LineInput struct {
	SKU            string
	WarehouseID    string
	Quantity       int64
	UserID         string
	Location       string
	BatchNumber    string
	ExpiryDate     *time.Time
	Remarks        string
	IdempotencyKey string
}

func (l LineInput) movement(t entity.MovementType, ref entity.Reference) MovementInput {
	return MovementInput{
		SKU:            l.SKU,
		WarehouseID:    l.WarehouseID,
		Type:           t,
		Quantity:       l.Quantity,
		Reference:      ref,
		UserID:         l.UserID,
		Location:       l.Location,
		BatchNumber:    l.BatchNumber,
		ExpiryDate:     l.ExpiryDate,
		Remarks:        l.Remarks,
		IdempotencyKey: l.IdempotencyKey,
	}
}

// ReceivePurchaseOrder recepción de una orden de compra (INWARD, referencia PO).
func (uc *MovementRecorder) ReceivePurchaseOrder(ctx context.Context, poID string, line LineInput) (*entity.StockMovement, error) {
	return uc.RecordMovement(ctx, line.movement(entity.MovementInward, entity.PurchaseOrderRef(poID)))
}

// FulfillOrder despacho de un pedido (OUTWARD, referencia ORDER).
func (uc *MovementRecorder) FulfillOrder(ctx context.Context, orderID string, line LineInput) (*entity.StockMovement, error) {
	return uc.RecordMovement(ctx, line.movement(entity.MovementOutward, entity.OrderRef(orderID)))
}

// DispatchTransfer salida de la bodega origen de un traslado (TRANSFER_OUT).
func (uc *MovementRecorder) DispatchTransfer(ctx context.Context, transferID string, line LineInput) (*entity.StockMovement, error) {
	return uc.RecordMovement(ctx, line.movement(entity.MovementTransferOut, entity.TransferRef(transferID)))
}

// ReceiveTransfer entrada en la bodega destino de un traslado (TRANSFER_IN).
func (uc *MovementRecorder) ReceiveTransfer(ctx context.Context, transferID string, line LineInput) (*entity.StockMovement, error) {
	return uc.RecordMovement(ctx, line.movement(entity.MovementTransferIn, entity.TransferRef(transferID)))
}

// Adjust corrección manual con cantidad con signo. adjustmentID vacío asigna un consecutivo ADJ-.
func (uc *MovementRecorder) Adjust(ctx context.Context, adjustmentID string, line LineInput) (*entity.StockMovement, error) {
	return uc.RecordMovement(ctx, line.movement(entity.MovementAdjustment, entity.AdjustmentRef(adjustmentID)))
}

// Register registra un movimiento recibido por HTTP. userID viene del token, no del body.
func (uc *MovementRecorder) Register(ctx context.Context, userID string, req dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	t, ok := entity.ParseMovementType(req.Type)
	if !ok {
		return nil, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, req.Type)
	}
	mov, err := uc.RecordMovement(ctx, MovementInput{
		SKU:            req.SKU,
		WarehouseID:    req.WarehouseID,
		Type:           t,
		Quantity:       req.Quantity,
		Reference:      entity.Reference{Type: entity.ReferenceType(req.ReferenceType), ID: req.ReferenceID},
		UserID:         userID,
		Location:       req.Location,
		BatchNumber:    req.BatchNumber,
		ExpiryDate:     req.ExpiryDate,
		Remarks:        req.Remarks,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		return nil, err
	}
	resp := dto.MovementFromEntity(mov)
	return &resp, nil
}
