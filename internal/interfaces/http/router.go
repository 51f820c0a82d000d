package http

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
	"github.com/swaggo/swag"

	_ "github.com/jhoicas/inventario-ledger/docs"
	"github.com/jhoicas/inventario-ledger/internal/application/analytics"
	"github.com/jhoicas/inventario-ledger/internal/application/catalog"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Recorder      *inventory.MovementRecorder
	Query         *inventory.QueryUseCase
	Reconciler    *inventory.Reconciler
	Replenishment *inventory.ReplenishmentUseCase
	Reports       *analytics.ReportUseCase
	CatalogQuery  *catalog.QueryUseCase
	CatalogImport *catalog.ImportUseCase
	PDF           PDFRenderer
	Metrics       http.Handler // nil = sin /metrics
	MetricsPath   string
	ServiceName   string
	JWTSecret     string
	Logger        zerolog.Logger
}

// Router registra middlewares y rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(RequestLogger(deps.Logger))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	if deps.Metrics != nil {
		path := deps.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(deps.Metrics))
	}
	app.Get("/openapi.json", OpenAPI)

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	anyRole := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero, jwt.RoleAnalista)
	operators := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)
	adminOnly := RequireRole(jwt.RoleAdmin)

	// Libro de stock
	ledger := api.Group("/ledger")
	ledgerHandler := NewLedgerHandler(deps.Recorder, deps.Query, deps.Reconciler, deps.Logger)
	ledger.Post("/movements", operators, ledgerHandler.RegisterMovement)
	ledger.Get("/stock", anyRole, ledgerHandler.GetStock)
	ledger.Get("/history", anyRole, ledgerHandler.GetHistory)
	ledger.Get("/references/:type/:id", anyRole, ledgerHandler.GetByReference)
	ledger.Get("/batches", anyRole, ledgerHandler.GetBatches)
	ledger.Get("/verify", anyRole, ledgerHandler.Verify)
	ledger.Post("/reconcile", adminOnly, ledgerHandler.Reconcile)

	// Reposición
	reorder := api.Group("/reorder", anyRole)
	reorderHandler := NewReorderHandler(deps.Replenishment, deps.PDF, deps.Logger)
	reorder.Get("/below", reorderHandler.GetBelowReorderPoint)
	reorder.Get("/suggestions", reorderHandler.GetSuggestions)

	// Reportes
	reports := api.Group("/reports", RequireRole(jwt.RoleAdmin, jwt.RoleAnalista))
	reportHandler := NewReportHandler(deps.Reports, deps.PDF, deps.Logger)
	reports.Get("/abc", reportHandler.GetABC)
	reports.Get("/turnover", reportHandler.GetTurnover)
	reports.Get("/ageing", reportHandler.GetAgeing)
	reports.Get("/stock-value", reportHandler.GetStockValue)

	// Catálogo
	cat := api.Group("/catalog")
	catalogHandler := NewCatalogHandler(deps.CatalogQuery, deps.CatalogImport, deps.Logger)
	cat.Get("/warehouses", anyRole, catalogHandler.ListWarehouses)
	cat.Get("/skus", anyRole, catalogHandler.ListSKUs)
	cat.Get("/skus/:code", anyRole, catalogHandler.GetSKU)
	cat.Post("/import", adminOnly, catalogHandler.Import)
}

// OpenAPI GET /openapi.json: documento Swagger 2.0 registrado por el paquete docs.
func OpenAPI(c *fiber.Ctx) error {
	doc, err := swag.ReadDoc()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "documentación no disponible"})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.SendString(doc)
}

// RequestLogger registra cada petición con zerolog (método, ruta, status, duración).
func RequestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("elapsed", time.Since(start)).
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Msg("http")
		return err
	}
}
