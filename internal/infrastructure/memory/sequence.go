package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.SequenceAllocator = (*Sequences)(nil)

// Sequences consecutivos por prefijo en memoria.
type Sequences struct {
	mu      sync.Mutex
	counter map[string]int64
}

func NewSequences() *Sequences {
	return &Sequences{counter: make(map[string]int64)}
}

func (s *Sequences) Next(_ context.Context, prefix string) (string, error) {
	s.mu.Lock()
	s.counter[prefix]++
	n := s.counter[prefix]
	s.mu.Unlock()
	return inventory.FormatSequence(prefix, n), nil
}
