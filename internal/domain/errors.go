package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrConcurrencyConflict = errors.New("conflicto de concurrencia, reintentar")
	// ErrImmutable lo devuelve el almacenamiento si alguien intenta modificar o borrar un movimiento.
	ErrImmutable = errors.New("los movimientos del libro son inmutables")
)
