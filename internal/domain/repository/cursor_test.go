package repository_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

func TestCursor_IdaYVuelta(t *testing.T) {
	at := time.Date(2026, 3, 4, 10, 11, 12, 345, time.UTC)
	c := repository.EncodeCursor(at, 42)

	assert.NotContains(t, c, "=")
	assert.False(t, strings.ContainsAny(c, "+/"), "el cursor debe poder ir en la URL")

	gotAt, gotSeq, err := repository.DecodeCursor(c)
	require.NoError(t, err)
	assert.True(t, at.Equal(gotAt))
	assert.Equal(t, int64(42), gotSeq)
}

func TestCursor_Invalido(t *testing.T) {
	for _, c := range []string{"%%%", "c2luLXNlcGFyYWRvcg", "YWJjOjEy"} {
		_, _, err := repository.DecodeCursor(c)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, c)
	}
}
