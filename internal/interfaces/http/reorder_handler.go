package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/xlsx"
)

// ReorderHandler expone el motor de reposición.
type ReorderHandler struct {
	uc  *inventory.ReplenishmentUseCase
	pdf PDFRenderer
	log zerolog.Logger
}

// NewReorderHandler construye el handler.
func NewReorderHandler(uc *inventory.ReplenishmentUseCase, pdf PDFRenderer, log zerolog.Logger) *ReorderHandler {
	return &ReorderHandler{uc: uc, pdf: pdf, log: log}
}

// GetBelowReorderPoint GET /api/reorder/below?warehouse_id=
// SKUs activos con stock actual <= punto de reorden. warehouse_id vacío = todas las bodegas.
func (h *ReorderHandler) GetBelowReorderPoint(c *fiber.Ctx) error {
	items, err := h.uc.SKUsBelowReorderPoint(c.Context(), c.Query("warehouse_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"total": len(items), "items": items})
}

// GetSuggestions godoc
// @Summary      Lista de reposición priorizada
// @Description  Ordenada por urgencia (URGENT, HIGH, MEDIUM) y luego por mayor déficit.
// @Tags         Reorder
// @Security     BearerAuth
// @Produce      json
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      application/pdf
// @Param        warehouse_id  query  string  false  "Bodega; vacío = todas"
// @Param        format        query  string  false  "json, xlsx o pdf"
// @Success      200  {object}  map[string]interface{}  "total y suggestions ([]dto.ReplenishmentSuggestionDTO)"
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reorder/suggestions [get]
func (h *ReorderHandler) GetSuggestions(c *fiber.Ctx) error {
	req, err := parseReportRequest(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	list, err := h.uc.GenerateSuggestions(c.Context(), req.WarehouseID)
	if err != nil {
		return writeError(c, h.log, err)
	}

	now := time.Now()
	switch req.Format {
	case "xlsx":
		body, err := xlsx.Reorder(list)
		if err != nil {
			return writeError(c, h.log, err)
		}
		return sendFile(c, xlsx.ContentType, fileName("reposicion", "xlsx", now), body)
	case "pdf":
		body, err := h.pdf.ReorderPDF(c.Context(), req.WarehouseID, now, list)
		if err != nil {
			return writeError(c, h.log, err)
		}
		return sendFile(c, contentTypePDF, fileName("reposicion", "pdf", now), body)
	}
	return c.JSON(fiber.Map{"total": len(list), "suggestions": list})
}
