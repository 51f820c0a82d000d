package repository

import "context"

// SequenceAllocator entrega códigos legibles consecutivos (ADJ-000001) de forma atómica,
// sin el patrón "contar documentos y sumar uno".
type SequenceAllocator interface {
	Next(ctx context.Context, prefix string) (string, error)
}
