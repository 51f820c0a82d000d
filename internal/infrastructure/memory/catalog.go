package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var (
	_ repository.CatalogRepository       = (*Catalog)(nil)
	_ repository.WarehouseRepository     = (*Warehouses)(nil)
	_ repository.SupplierPriceRepository = (*SupplierPrices)(nil)
)

// Catalog SKUs en memoria.
type Catalog struct {
	mu   sync.RWMutex
	skus map[string]*entity.SKU
}

// NewCatalog construye el catálogo con los SKUs dados.
func NewCatalog(skus ...*entity.SKU) *Catalog {
	c := &Catalog{skus: make(map[string]*entity.SKU)}
	for _, s := range skus {
		c.Put(s)
	}
	return c
}

// Put inserta o reemplaza un SKU.
func (c *Catalog) Put(s *entity.SKU) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *s
	c.skus[s.Code] = &cp
}

func (c *Catalog) GetByCode(_ context.Context, code string) (*entity.SKU, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.skus[code]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (c *Catalog) ListActive(_ context.Context) ([]*entity.SKU, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*entity.SKU, 0, len(c.skus))
	for _, s := range c.skus {
		if s.IsActive {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// Warehouses bodegas en memoria.
type Warehouses struct {
	mu  sync.RWMutex
	whs map[string]*entity.Warehouse
}

// NewWarehouses construye el repositorio con las bodegas dadas.
func NewWarehouses(whs ...*entity.Warehouse) *Warehouses {
	r := &Warehouses{whs: make(map[string]*entity.Warehouse)}
	for _, w := range whs {
		r.Put(w)
	}
	return r
}

// Put inserta o reemplaza una bodega.
func (r *Warehouses) Put(w *entity.Warehouse) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *w
	r.whs[w.ID] = &cp
}

func (r *Warehouses) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.whs[id]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (r *Warehouses) List(_ context.Context) ([]*entity.Warehouse, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.Warehouse, 0, len(r.whs))
	for _, w := range r.whs {
		cp := *w
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SupplierPrices tramos de precio en memoria, por proveedor y SKU.
type SupplierPrices struct {
	mu    sync.RWMutex
	tiers map[string][]entity.PriceTier
}

// NewSupplierPrices construye el repositorio con los tramos dados.
func NewSupplierPrices(tiers ...entity.PriceTier) *SupplierPrices {
	r := &SupplierPrices{tiers: make(map[string][]entity.PriceTier)}
	for _, t := range tiers {
		r.Add(t)
	}
	return r
}

// Add agrega un tramo.
func (r *SupplierPrices) Add(t entity.PriceTier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := t.SupplierID + "/" + t.SKU
	r.tiers[k] = append(r.tiers[k], t)
}

func (r *SupplierPrices) Tiers(_ context.Context, supplierID, sku string) ([]entity.PriceTier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src := r.tiers[supplierID+"/"+sku]
	out := make([]entity.PriceTier, len(src))
	copy(out, src)
	return out, nil
}

// Upsert equivale a Put; cumple el contrato de escritura del importador de catálogo.
func (c *Catalog) Upsert(_ context.Context, s *entity.SKU) error {
	c.Put(s)
	return nil
}

// Upsert equivale a Put.
func (r *Warehouses) Upsert(_ context.Context, w *entity.Warehouse) error {
	r.Put(w)
	return nil
}

// Upsert agrega el tramo o reemplaza el precio si ya existe el mismo MinQty.
func (r *SupplierPrices) Upsert(_ context.Context, t entity.PriceTier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := t.SupplierID + "/" + t.SKU
	for i, cur := range r.tiers[key] {
		if cur.MinQty == t.MinQty {
			r.tiers[key][i] = t
			return nil
		}
	}
	r.tiers[key] = append(r.tiers[key], t)
	return nil
}
