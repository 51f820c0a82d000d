package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/bootstrap"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	apphttp "github.com/jhoicas/inventario-ledger/internal/interfaces/http"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers: API completa sobre almacenamiento en memoria
// ──────────────────────────────────────────────────────────────────────────────

func buildAPI(t *testing.T) *fiber.App {
	t.Helper()
	cfg := &config.Config{
		App:     config.AppConfig{Name: "ledger-test"},
		JWT:     config.JWTConfig{Secret: testJWTSecret},
		Ledger:  config.LedgerConfig{MaxRetries: 5, ScanPageSize: 50, AllowNegativeAdjustment: true},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
	log := logger.NewWithWriter(logger.Config{Level: "error"}, io.Discard)
	stores := bootstrap.MemoryStores()
	c := bootstrap.NewWithStores(cfg, log, stores)

	ctx := context.Background()
	require.NoError(t, stores.Warehouses.Upsert(ctx, &entity.Warehouse{ID: "W1", Name: "Central"}))
	require.NoError(t, stores.SKUs.Upsert(ctx, &entity.SKU{
		Code: "S1", Name: "Tornillo", MinStock: 50, MaxStock: 200, SafetyStock: 20,
		UnitCost: decimal.NewFromInt(100), IsActive: true,
	}))

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Recorder:      c.Recorder,
		Query:         c.Query,
		Reconciler:    c.Reconciler,
		Replenishment: c.Replenishment,
		Reports:       c.Reports,
		CatalogQuery:  c.CatalogQuery,
		CatalogImport: c.CatalogImport,
		PDF:           c.PDF,
		Metrics:       c.Metrics.Handler(),
		ServiceName:   "ledger-test",
		JWTSecret:     testJWTSecret,
		Logger:        log.Zerolog(),
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, role string, body interface{}) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func movement(typ, refType, refID string, qty int64) dto.RegisterMovementRequest {
	return dto.RegisterMovementRequest{
		SKU: "S1", WarehouseID: "W1", Type: typ, Quantity: qty,
		ReferenceType: refType, ReferenceID: refID,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_EntradaYSalida(t *testing.T) {
	app := buildAPI(t)

	resp := call(t, app, http.MethodPost, "/api/ledger/movements", "bodeguero", movement("INWARD", "PO", "PO-1", 100))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var in dto.MovementResponse
	decode(t, resp, &in)
	assert.Equal(t, int64(100), in.BalanceQuantity)
	assert.Equal(t, testUserID, in.UserID)

	resp = call(t, app, http.MethodPost, "/api/ledger/movements", "bodeguero", movement("OUTWARD", "ORDER", "SO-1", 30))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out dto.MovementResponse
	decode(t, resp, &out)
	assert.Equal(t, int64(70), out.BalanceQuantity)

	resp = call(t, app, http.MethodGet, "/api/ledger/stock?sku=S1&warehouse_id=W1", "analista", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stock dto.StockResponse
	decode(t, resp, &stock)
	assert.Equal(t, int64(70), stock.Balance)
}

func TestRegisterMovement_CantidadFueraDeRango400(t *testing.T) {
	app := buildAPI(t)

	resp := call(t, app, http.MethodPost, "/api/ledger/movements", "bodeguero", movement("INWARD", "PO", "PO-1", 1_000_000_000_001))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegisterMovement_StockInsuficiente409(t *testing.T) {
	app := buildAPI(t)

	resp := call(t, app, http.MethodPost, "/api/ledger/movements", "bodeguero", movement("OUTWARD", "ORDER", "SO-1", 1))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INSUFFICIENT_STOCK")
}

func TestRegisterMovement_CuerpoInvalido400ConCampos(t *testing.T) {
	app := buildAPI(t)

	resp := call(t, app, http.MethodPost, "/api/ledger/movements", "bodeguero", dto.RegisterMovementRequest{Type: "INWARD"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body apphttp.ValidationErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Contains(t, body.Fields, "SKU")
	assert.Contains(t, body.Fields, "Quantity")
}

func TestRegisterMovement_SKUDesconocido404(t *testing.T) {
	app := buildAPI(t)
	req := movement("INWARD", "PO", "PO-1", 5)
	req.SKU = "NO-EXISTE"

	resp := call(t, app, http.MethodPost, "/api/ledger/movements", "bodeguero", req)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRegisterMovement_AjusteSoloAdmin(t *testing.T) {
	app := buildAPI(t)
	adj := movement("ADJUSTMENT", "ADJUSTMENT", "", -5)

	resp := call(t, app, http.MethodPost, "/api/ledger/movements", "bodeguero", adj)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/ledger/movements", "admin", adj)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out dto.MovementResponse
	decode(t, resp, &out)
	assert.Equal(t, int64(-5), out.BalanceQuantity)
	assert.Equal(t, "ADJ-000001", out.ReferenceID)
}

func TestRegisterMovement_AnalistaNoRegistra(t *testing.T) {
	app := buildAPI(t)

	resp := call(t, app, http.MethodPost, "/api/ledger/movements", "analista", movement("INWARD", "PO", "PO-1", 1))
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRegisterMovement_IdempotencyKeyHeader(t *testing.T) {
	app := buildAPI(t)
	raw, err := json.Marshal(movement("INWARD", "PO", "PO-9", 10))
	require.NoError(t, err)

	send := func() dto.MovementResponse {
		req := httptest.NewRequest(http.MethodPost, "/api/ledger/movements", bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", tokenForRole(t, "bodeguero"))
		req.Header.Set("Idempotency-Key", "po-9-linea-1")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var out dto.MovementResponse
		decode(t, resp, &out)
		return out
	}

	first, second := send(), send()
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(10), second.BalanceQuantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestHistory_PaginaConCursor(t *testing.T) {
	app := buildAPI(t)
	for i := 0; i < 3; i++ {
		resp := call(t, app, http.MethodPost, "/api/ledger/movements", "bodeguero", movement("INWARD", "PO", "PO-1", 10))
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := call(t, app, http.MethodGet, "/api/ledger/history?sku=S1&warehouse_id=W1&limit=2", "analista", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page1 dto.HistoryResponse
	decode(t, resp, &page1)
	require.Len(t, page1.Movements, 2)
	assert.Equal(t, int64(30), page1.Movements[0].BalanceQuantity)
	require.NotEmpty(t, page1.NextCursor)

	resp = call(t, app, http.MethodGet, "/api/ledger/history?sku=S1&warehouse_id=W1&limit=2&cursor="+page1.NextCursor, "analista", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page2 dto.HistoryResponse
	decode(t, resp, &page2)
	require.Len(t, page2.Movements, 1)
	assert.Equal(t, int64(10), page2.Movements[0].BalanceQuantity)
	assert.Empty(t, page2.NextCursor)
}

func TestVerify_LibroConsistente(t *testing.T) {
	app := buildAPI(t)
	resp := call(t, app, http.MethodPost, "/api/ledger/movements", "bodeguero", movement("INWARD", "PO", "PO-1", 10))
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/ledger/verify?sku=S1&warehouse_id=W1", "analista", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.ReplayResponse
	decode(t, resp, &out)
	assert.True(t, out.Consistent)
	assert.Equal(t, 1, out.Movements)
	assert.Equal(t, int64(10), out.Balance)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reposición, reportes y operación
// ──────────────────────────────────────────────────────────────────────────────

func TestReorderSuggestions_SinStockEsUrgente(t *testing.T) {
	app := buildAPI(t)

	resp := call(t, app, http.MethodGet, "/api/reorder/suggestions?warehouse_id=W1", "analista", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Total       int                              `json:"total"`
		Suggestions []dto.ReplenishmentSuggestionDTO `json:"suggestions"`
	}
	decode(t, resp, &body)
	require.Equal(t, 1, body.Total)
	assert.Equal(t, "URGENT", body.Suggestions[0].Urgency)
	assert.Equal(t, int64(200), body.Suggestions[0].SuggestedOrderQty)
	assert.Equal(t, 1, body.Suggestions[0].Priority)
}

func TestStockValue_FormatoXLSX(t *testing.T) {
	app := buildAPI(t)

	resp := call(t, app, http.MethodGet, "/api/reports/stock-value?format=xlsx", "analista", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "valor_inventario_")
}

func TestStockValue_FormatoDesconocido400(t *testing.T) {
	app := buildAPI(t)

	resp := call(t, app, http.MethodGet, "/api/reports/stock-value?format=csv", "analista", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReports_BodegueroSinAcceso(t *testing.T) {
	app := buildAPI(t)

	resp := call(t, app, http.MethodGet, "/api/reports/abc", "bodeguero", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestHealthYMetrics_SinToken(t *testing.T) {
	app := buildAPI(t)
	resp := call(t, app, http.MethodPost, "/api/ledger/movements", "bodeguero", movement("INWARD", "PO", "PO-1", 10))
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/health", "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/metrics", "", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `ledger_movements_recorded_total{type="INWARD"} 1`)
}

func TestOpenAPI_DocumentaLasRutas(t *testing.T) {
	app := buildAPI(t)

	resp := call(t, app, http.MethodGet, "/openapi.json", "", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var doc struct {
		Swagger string                     `json:"swagger"`
		Info    struct{ Title string }     `json:"info"`
		Paths   map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Equal(t, "2.0", doc.Swagger)
	assert.Equal(t, "Inventario Ledger API", doc.Info.Title)
	assert.Contains(t, doc.Paths, "/api/ledger/movements")
	assert.Contains(t, doc.Paths, "/api/reports/stock-value")
}
