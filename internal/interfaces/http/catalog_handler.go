package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/application/catalog"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/xlsx"
)

// CatalogHandler consulta y carga de datos maestros (bodegas, SKUs, tramos).
type CatalogHandler struct {
	query    *catalog.QueryUseCase
	importer *catalog.ImportUseCase
	log      zerolog.Logger
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(query *catalog.QueryUseCase, importer *catalog.ImportUseCase, log zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{query: query, importer: importer, log: log}
}

// ListWarehouses GET /api/catalog/warehouses
func (h *CatalogHandler) ListWarehouses(c *fiber.Ctx) error {
	items, err := h.query.ListWarehouses(c.Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"total": len(items), "items": items})
}

// ListSKUs GET /api/catalog/skus
func (h *CatalogHandler) ListSKUs(c *fiber.Ctx) error {
	items, err := h.query.ListSKUs(c.Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"total": len(items), "items": items})
}

// GetSKU GET /api/catalog/skus/:code
func (h *CatalogHandler) GetSKU(c *fiber.Ctx) error {
	out, err := h.query.GetSKU(c.Context(), c.Params("code"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Import godoc
// @Summary      Importar catálogo desde xlsx
// @Description  Hojas SKUs, Bodegas y Precios. Valida todo el libro antes de escribir. Solo admin.
// @Tags         Catalog
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Libro .xlsx"
// @Success      201  {object}  catalog.ImportResult
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/catalog/import [post]
func (h *CatalogHandler) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "campo file requerido"})
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, h.log, err)
	}
	defer f.Close()

	data, err := xlsx.ReadCatalog(f)
	if err != nil {
		return writeError(c, h.log, err)
	}
	res, err := h.importer.Import(c.Context(), catalog.ImportInput{
		Warehouses: data.Warehouses,
		SKUs:       data.SKUs,
		PriceTiers: data.PriceTiers,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}
