package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/inventario-ledger/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/inventario-ledger/pkg/jwt"
)

const (
	authSecret = "auth-middleware-secret"
	authUserID = "00000000-0000-0000-0000-000000000001"
)

// guardedApp expone GET /guarded detrás de AuthMiddleware + RequireRole(roles...).
func guardedApp(roles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/guarded",
		apphttp.AuthMiddleware(authSecret),
		apphttp.RequireRole(roles...),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"user_id": apphttp.GetUserID(c), "role": apphttp.GetRole(c)})
		},
	)
	return app
}

func bearer(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(authSecret, authUserID, role, "ledger-test", 5)
	require.NoError(t, err)
	return "Bearer " + tok
}

func hit(t *testing.T, app *fiber.App, authorization string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

// ─── Matriz de roles ─────────────────────────────────────────────────────────

func TestRequireRole_MatrizDelLibro(t *testing.T) {
	operators := []string{pkgjwt.RoleAdmin, pkgjwt.RoleBodeguero}
	reports := []string{pkgjwt.RoleAdmin, pkgjwt.RoleAnalista}
	adminOnly := []string{pkgjwt.RoleAdmin}

	cases := []struct {
		name    string
		allowed []string
		role    string
		want    int
	}{
		{"bodeguero registra movimientos", operators, pkgjwt.RoleBodeguero, http.StatusOK},
		{"analista no registra movimientos", operators, pkgjwt.RoleAnalista, http.StatusForbidden},
		{"analista ve reportes", reports, pkgjwt.RoleAnalista, http.StatusOK},
		{"bodeguero no ve reportes", reports, pkgjwt.RoleBodeguero, http.StatusForbidden},
		{"admin concilia", adminOnly, pkgjwt.RoleAdmin, http.StatusOK},
		{"bodeguero no concilia", adminOnly, pkgjwt.RoleBodeguero, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := hit(t, guardedApp(tc.allowed...), bearer(t, tc.role))
			assert.Equal(t, tc.want, status)
			if tc.want == http.StatusForbidden {
				assert.Contains(t, body, "FORBIDDEN")
			}
		})
	}
}

func TestRequireRole_TokenSinRol(t *testing.T) {
	status, body := hit(t, guardedApp(pkgjwt.RoleAdmin), bearer(t, ""))
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, body, "MISSING_ROLE")
}

// ─── AuthMiddleware ──────────────────────────────────────────────────────────

func TestAuthMiddleware_RechazaCabecerasInvalidas(t *testing.T) {
	app := guardedApp(pkgjwt.RoleAdmin)

	cases := map[string]string{
		"sin cabecera":     "",
		"esquema distinto": "Basic dXNlcjpwYXNz",
		"token vacío":      "Bearer   ",
		"token malformado": "Bearer token.invalido.aqui",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			status, _ := hit(t, app, header)
			assert.Equal(t, http.StatusUnauthorized, status)
		})
	}
}

func TestAuthMiddleware_OtroSecretoNoValida(t *testing.T) {
	tok, err := pkgjwt.Generate("otro-secreto", authUserID, pkgjwt.RoleAdmin, "ledger-test", 5)
	require.NoError(t, err)

	status, body := hit(t, guardedApp(pkgjwt.RoleAdmin), "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, body, "INVALID_TOKEN")
}

func TestAuthMiddleware_CargaUsuarioYRol(t *testing.T) {
	status, raw := hit(t, guardedApp(pkgjwt.RoleAnalista), bearer(t, pkgjwt.RoleAnalista))
	require.Equal(t, http.StatusOK, status)

	var body map[string]string
	require.NoError(t, json.Unmarshal([]byte(raw), &body))
	assert.Equal(t, authUserID, body["user_id"])
	assert.Equal(t, pkgjwt.RoleAnalista, body["role"])
}
