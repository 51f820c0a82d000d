package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

// RedisLocker lock distribuido por clave para varias instancias del servicio.
type RedisLocker struct {
	locker  *redislock.Client
	ttl     time.Duration
	backoff time.Duration
	log     zerolog.Logger
}

// NewRedisLocker construye el locker sobre un cliente Redis existente.
// ttl acota cuánto puede retener el lock una instancia que muera sin liberarlo.
func NewRedisLocker(rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &RedisLocker{
		locker:  redislock.New(rdb),
		ttl:     ttl,
		backoff: 25 * time.Millisecond,
		log:     log,
	}
}

// Lock reintenta hasta obtener el lock o agotar el contexto (o el ttl si no hay deadline).
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	lockKey := fmt.Sprintf("ledger:lock:%s", key)
	lk, err := l.locker.Obtain(ctx, lockKey, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(l.backoff),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: lock %s no disponible", domain.ErrConcurrencyConflict, key)
	}
	if err != nil {
		return nil, fmt.Errorf("obtener lock %s: %w", key, err)
	}
	return func() {
		// Contexto propio: el del request puede estar cancelado al liberar.
		relCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := lk.Release(relCtx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.log.Warn().Err(err).Str("key", key).Msg("liberar lock redis")
		}
	}, nil
}
