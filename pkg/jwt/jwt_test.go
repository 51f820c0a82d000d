package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/inventario-ledger/pkg/jwt"
)

const (
	secret = "test-secret-key-for-unit-tests"
	userID = "00000000-0000-0000-0000-000000000001"
)

func TestGenerateAndParse_ConRole(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, userID, pkgjwt.RoleBodeguero, "ledger-test", 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	gotUser, role, err := pkgjwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, userID, gotUser)
	assert.Equal(t, pkgjwt.RoleBodeguero, role)
}

func TestTokenExpirado_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, userID, pkgjwt.RoleAdmin, "ledger-test", -1)
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse(secret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestSecretIncorrecto_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, userID, pkgjwt.RoleAdmin, "ledger-test", 60)
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", userID, pkgjwt.RoleAdmin, "ledger-test", 60)
	assert.Error(t, err)

	_, _, err = pkgjwt.Parse("", "x.y.z")
	assert.Error(t, err)
}
