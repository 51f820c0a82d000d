package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// QueryUseCase consultas de solo lectura sobre el libro.
type QueryUseCase struct {
	ledger   repository.LedgerRepository
	resolver *BalanceResolver
	batches  *BatchView
}

// NewQueryUseCase construye el caso de uso de consultas.
func NewQueryUseCase(ledger repository.LedgerRepository, scanPageSize int) *QueryUseCase {
	return &QueryUseCase{
		ledger:   ledger,
		resolver: NewBalanceResolver(ledger),
		batches:  NewBatchView(ledger, scanPageSize),
	}
}

// Stock saldo de un SKU en una bodega, o total con detalle por bodega si warehouseID es vacío.
func (uc *QueryUseCase) Stock(ctx context.Context, sku, warehouseID string) (*dto.StockResponse, error) {
	if sku == "" {
		return nil, fmt.Errorf("%w: sku requerido", domain.ErrInvalidInput)
	}
	if warehouseID != "" {
		bal, err := uc.resolver.CurrentBalance(ctx, sku, warehouseID)
		if err != nil {
			return nil, err
		}
		return &dto.StockResponse{SKU: sku, WarehouseID: warehouseID, Balance: bal}, nil
	}
	byWarehouse, err := uc.resolver.BalancesBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	resp := &dto.StockResponse{SKU: sku, ByWarehouse: byWarehouse}
	for _, qty := range byWarehouse {
		resp.Balance += qty
	}
	return resp, nil
}

// History página del historial, más reciente primero. Limit 0 = 50; máximo 500.
func (uc *QueryUseCase) History(ctx context.Context, req dto.HistoryRequest) (*dto.HistoryResponse, error) {
	if req.SKU == "" {
		return nil, fmt.Errorf("%w: sku requerido", domain.ErrInvalidInput)
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	page, err := uc.ledger.History(ctx, repository.HistoryQuery{
		SKU:         req.SKU,
		WarehouseID: req.WarehouseID,
		Limit:       limit,
		Cursor:      req.Cursor,
	})
	if err != nil {
		return nil, err
	}
	return &dto.HistoryResponse{
		Movements:  dto.MovementsFromEntities(page.Movements),
		NextCursor: page.NextCursor,
	}, nil
}

// ByReference movimientos causados por un documento (auditoría).
func (uc *QueryUseCase) ByReference(ctx context.Context, refType, refID string) ([]dto.MovementResponse, error) {
	ref := entity.Reference{Type: entity.ReferenceType(refType), ID: refID}
	if !ref.Type.Valid() || ref.ID == "" {
		return nil, fmt.Errorf("%w: referencia %s/%s", domain.ErrInvalidInput, refType, refID)
	}
	rows, err := uc.ledger.FindByReference(ctx, ref)
	if err != nil {
		return nil, err
	}
	return dto.MovementsFromEntities(rows), nil
}

// Batches saldos por lote derivados del libro.
func (uc *QueryUseCase) Batches(ctx context.Context, sku, warehouseID string) (*dto.BatchesResponse, error) {
	if sku == "" || warehouseID == "" {
		return nil, fmt.Errorf("%w: sku y bodega requeridos", domain.ErrInvalidInput)
	}
	batches, err := uc.batches.Balances(ctx, sku, warehouseID)
	if err != nil {
		return nil, err
	}
	resp := &dto.BatchesResponse{SKU: sku, WarehouseID: warehouseID, Batches: make([]dto.BatchBalanceResponse, 0, len(batches))}
	for _, b := range batches {
		resp.Total += b.Quantity
		resp.Batches = append(resp.Batches, dto.BatchBalanceResponse{
			BatchNumber: b.BatchNumber,
			Quantity:    b.Quantity,
			ExpiryDate:  b.ExpiryDate,
		})
	}
	return resp, nil
}
