package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/pkg/jwt"
)

// LedgerHandler maneja el registro de movimientos y las consultas del libro (protegido).
type LedgerHandler struct {
	recorder   *inventory.MovementRecorder
	query      *inventory.QueryUseCase
	reconciler *inventory.Reconciler
	log        zerolog.Logger
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(recorder *inventory.MovementRecorder, query *inventory.QueryUseCase, reconciler *inventory.Reconciler, log zerolog.Logger) *LedgerHandler {
	return &LedgerHandler{recorder: recorder, query: query, reconciler: reconciler, log: log}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de stock
// @Description  Los ajustes (ADJUSTMENT) solo los registra el rol admin. Si se agotan los
//
//	reintentos por conflicto responde 503 con Retry-After y se puede reintentar
//	con la misma clave de idempotencia.
//
// @Tags         Ledger
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body             body    dto.RegisterMovementRequest  true   "Movimiento"
// @Param        Idempotency-Key  header  string                       false  "Clave de idempotencia si no viene en el body"
// @Success      201  {object}  dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/ledger/movements [post]
func (h *LedgerHandler) RegisterMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.IdempotencyKey == "" {
		in.IdempotencyKey = c.Get("Idempotency-Key")
	}
	if err := validateStruct(in); err != nil {
		return writeError(c, h.log, err)
	}
	if in.Type == "ADJUSTMENT" && GetRole(c) != jwt.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "solo admin registra ajustes"})
	}

	resp, err := h.recorder.Register(c.Context(), userID, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetStock GET /api/ledger/stock?sku=&warehouse_id=
func (h *LedgerHandler) GetStock(c *fiber.Ctx) error {
	resp, err := h.query.Stock(c.Context(), c.Query("sku"), c.Query("warehouse_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(resp)
}

// GetHistory godoc
// @Summary      Historial paginado por cursor
// @Tags         Ledger
// @Security     BearerAuth
// @Produce      json
// @Param        sku           query  string  true   "Código del SKU"
// @Param        warehouse_id  query  string  false  "Bodega"
// @Param        limit         query  int     false  "Tamaño de página (50 por defecto, máximo 500)"
// @Param        cursor        query  string  false  "next_cursor de la página anterior"
// @Success      200  {object}  dto.HistoryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger/history [get]
func (h *LedgerHandler) GetHistory(c *fiber.Ctx) error {
	var req dto.HistoryRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos"})
	}
	if err := validateStruct(req); err != nil {
		return writeError(c, h.log, err)
	}
	resp, err := h.query.History(c.Context(), req)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(resp)
}

// GetByReference GET /api/ledger/references/:type/:id
func (h *LedgerHandler) GetByReference(c *fiber.Ctx) error {
	rows, err := h.query.ByReference(c.Context(), c.Params("type"), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"total": len(rows), "movements": rows})
}

// GetBatches GET /api/ledger/batches?sku=&warehouse_id=
func (h *LedgerHandler) GetBatches(c *fiber.Ctx) error {
	resp, err := h.query.Batches(c.Context(), c.Query("sku"), c.Query("warehouse_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(resp)
}

// Verify GET /api/ledger/verify?sku=&warehouse_id= reproduce el historial de la clave.
func (h *LedgerHandler) Verify(c *fiber.Ctx) error {
	sku, wh := c.Query("sku"), c.Query("warehouse_id")
	if sku == "" || wh == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "sku y warehouse_id son obligatorios"})
	}
	res, err := h.reconciler.VerifyReplay(c.Context(), sku, wh)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(inventory.ReplayToDTO(res))
}

// Reconcile POST /api/ledger/reconcile concilia todo el libro (admin).
func (h *LedgerHandler) Reconcile(c *fiber.Ctx) error {
	findings, err := h.reconciler.Run(c.Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(inventory.FindingsToDTO(findings))
}
