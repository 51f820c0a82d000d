// Package lock serializa el registro de movimientos por clave (sku, bodega).
package lock

import (
	"context"
	"sync"
)

// LocalLocker admite un solo poseedor por clave dentro del proceso. Claves distintas no se
// bloquean entre sí y las entradas se liberan cuando nadie las espera.
type LocalLocker struct {
	mu   sync.Mutex
	keys map[string]*keyEntry
}

type keyEntry struct {
	sem  chan struct{}
	refs int
}

// NewLocalLocker construye el locker en memoria.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{keys: make(map[string]*keyEntry)}
}

// Lock espera el turno de la clave o la cancelación del contexto.
func (l *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	e, ok := l.keys[key]
	if !ok {
		e = &keyEntry{sem: make(chan struct{}, 1)}
		l.keys[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.sem
			l.release(key, e)
		})
	}, nil
}

// Size claves con poseedor o en espera.
func (l *LocalLocker) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.keys)
}

func (l *LocalLocker) release(key string, e *keyEntry) {
	l.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(l.keys, key)
	}
	l.mu.Unlock()
}
