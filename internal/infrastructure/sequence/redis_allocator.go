// Package sequence asigna consecutivos de documentos compartidos entre instancias.
package sequence

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.SequenceAllocator = (*RedisAllocator)(nil)

// RedisAllocator consecutivos con INCR: atómico y sin huecos mientras Redis conserve la clave.
type RedisAllocator struct {
	rdb       *redis.Client
	keyPrefix string
}

// NewRedisAllocator construye el asignador. Las claves quedan como ledger:seq:<PREFIJO>.
func NewRedisAllocator(rdb *redis.Client) *RedisAllocator {
	return &RedisAllocator{rdb: rdb, keyPrefix: "ledger:seq:"}
}

func (a *RedisAllocator) Next(ctx context.Context, prefix string) (string, error) {
	n, err := a.rdb.Incr(ctx, a.keyPrefix+prefix).Result()
	if err != nil {
		return "", fmt.Errorf("incrementar consecutivo %s: %w", prefix, err)
	}
	return inventory.FormatSequence(prefix, n), nil
}
