package http_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/inventario-ledger/pkg/jwt"
)

const (
	testJWTSecret = "ledger-handlers-secret"
	testUserID    = "00000000-0000-0000-0000-0000000000aa"
)

// tokenForRole cabecera Authorization con un JWT de testUserID y el rol dado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, role, "ledger-test", 5)
	require.NoError(t, err)
	return "Bearer " + tok
}
