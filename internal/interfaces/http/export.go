package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
)

// PDFRenderer genera los reportes imprimibles. Lo implementa *pdf.ReportGenerator.
type PDFRenderer interface {
	StockValuePDF(ctx context.Context, report *dto.StockValueReportDTO) ([]byte, error)
	ReorderPDF(ctx context.Context, warehouseID string, asOf time.Time, suggestions []dto.ReplenishmentSuggestionDTO) ([]byte, error)
}

const contentTypePDF = "application/pdf"

// parseReportRequest lee ?warehouse_id=&format= (json por defecto) y lo valida.
func parseReportRequest(c *fiber.Ctx) (dto.ReportRequest, error) {
	var req dto.ReportRequest
	if err := c.QueryParser(&req); err != nil {
		return req, fmt.Errorf("%w: parámetros de consulta", domain.ErrInvalidInput)
	}
	if err := validateStruct(req); err != nil {
		return req, err
	}
	if req.Format == "" {
		req.Format = "json"
	}
	return req, nil
}

// sendFile responde un archivo descargable.
func sendFile(c *fiber.Ctx, contentType, name string, body []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", name))
	return c.Send(body)
}

func fileName(base, ext string, at time.Time) string {
	return fmt.Sprintf("%s_%s.%s", base, at.Format("20060102_150405"), ext)
}
