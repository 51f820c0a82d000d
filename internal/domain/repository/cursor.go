package repository

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

// EncodeCursor serializa la posición (TransactionDate, Seq) de la última fila entregada.
func EncodeCursor(transactionDate time.Time, seq int64) string {
	raw := strconv.FormatInt(transactionDate.UnixNano(), 10) + ":" + strconv.FormatInt(seq, 10)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor interpreta un cursor generado por EncodeCursor.
func DecodeCursor(cursor string) (time.Time, int64, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("%w: cursor inválido", domain.ErrInvalidInput)
	}
	parts := strings.SplitN(string(raw), ":", 2)
	if len(parts) != 2 {
		return time.Time{}, 0, fmt.Errorf("%w: cursor inválido", domain.ErrInvalidInput)
	}
	nanos, err1 := strconv.ParseInt(parts[0], 10, 64)
	seq, err2 := strconv.ParseInt(parts[1], 10, 64)
	if err1 != nil || err2 != nil {
		return time.Time{}, 0, fmt.Errorf("%w: cursor inválido", domain.ErrInvalidInput)
	}
	return time.Unix(0, nanos).UTC(), seq, nil
}
