package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/pkg/jwt"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestToken_EmiteJWTValido(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto-de-prueba")
	t.Setenv("STORE_DRIVER", "memory")

	out, err := run(t, "token", "--user", "integracion-wms", "--role", "analista", "--exp", "5")
	require.NoError(t, err)

	userID, role, err := jwt.Parse("secreto-de-prueba", strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "integracion-wms", userID)
	assert.Equal(t, jwt.RoleAnalista, role)
}

func TestToken_RolInvalido(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto-de-prueba")

	_, err := run(t, "token", "--user", "x", "--role", "vendedor")
	assert.Error(t, err)
}

func TestReconcile_LibroVacioConsistente(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("REDIS_ADDR", "")

	out, err := run(t, "reconcile")
	require.NoError(t, err)
	assert.Contains(t, out, "libro consistente")
}

func TestMigrate_RequierePostgres(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")

	_, err := run(t, "migrate", "status")
	assert.Error(t, err)
}
