package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/application/analytics"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/xlsx"
)

// ReportHandler maneja los reportes de analítica del inventario.
type ReportHandler struct {
	uc  *analytics.ReportUseCase
	pdf PDFRenderer
	log zerolog.Logger
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *analytics.ReportUseCase, pdf PDFRenderer, log zerolog.Logger) *ReportHandler {
	return &ReportHandler{uc: uc, pdf: pdf, log: log}
}

// GetABC GET /api/reports/abc?format=json|xlsx
// Clasificación ABC por valor de consumo de los últimos 12 meses.
func (h *ReportHandler) GetABC(c *fiber.Ctx) error {
	req, err := parseReportRequest(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	report, err := h.uc.ABCAnalysis(c.Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	if req.Format == "xlsx" {
		body, err := xlsx.ABC(report)
		if err != nil {
			return writeError(c, h.log, err)
		}
		return sendFile(c, xlsx.ContentType, fileName("abc", "xlsx", time.Now()), body)
	}
	return c.JSON(report)
}

// GetTurnover GET /api/reports/turnover?sku=&months=
func (h *ReportHandler) GetTurnover(c *fiber.Ctx) error {
	var req dto.TurnoverRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos"})
	}
	report, err := h.uc.TurnoverRatio(c.Context(), req.SKU, req.Months)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(report)
}

// GetAgeing GET /api/reports/ageing?warehouse_id=
// Entradas con vencimiento agrupadas en Expired, Expiring Soon (<=30 días), Medium (<=90),
// Good (<=180) y Fresh.
func (h *ReportHandler) GetAgeing(c *fiber.Ctx) error {
	report, err := h.uc.StockAgeing(c.Context(), c.Query("warehouse_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(report)
}

// GetStockValue godoc
// @Summary      Valor del inventario
// @Tags         Reports
// @Security     BearerAuth
// @Produce      json
// @Param        warehouse_id  query  string  false  "Bodega; vacío = global"
// @Param        format        query  string  false  "json, xlsx o pdf"
// @Success      200  {object}  dto.StockValueReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/reports/stock-value [get]
func (h *ReportHandler) GetStockValue(c *fiber.Ctx) error {
	req, err := parseReportRequest(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	report, err := h.uc.StockValueReport(c.Context(), req.WarehouseID)
	if err != nil {
		return writeError(c, h.log, err)
	}

	switch req.Format {
	case "xlsx":
		body, err := xlsx.StockValue(report)
		if err != nil {
			return writeError(c, h.log, err)
		}
		return sendFile(c, xlsx.ContentType, fileName("valor_inventario", "xlsx", report.AsOf), body)
	case "pdf":
		body, err := h.pdf.StockValuePDF(c.Context(), report)
		if err != nil {
			return writeError(c, h.log, err)
		}
		return sendFile(c, contentTypePDF, fileName("valor_inventario", "pdf", report.AsOf), body)
	}
	return c.JSON(report)
}
