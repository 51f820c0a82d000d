// Package bootstrap arma el grafo de dependencias según la configuración: almacenamiento
// PostgreSQL o en memoria, y Redis opcional para el lock por clave y los consecutivos.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventario-ledger/internal/application/analytics"
	"github.com/jhoicas/inventario-ledger/internal/application/catalog"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	domaininv "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/lock"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/metrics"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/sequence"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

type skuStore interface {
	repository.CatalogRepository
	catalog.SKUWriter
}

type warehouseStore interface {
	repository.WarehouseRepository
	catalog.WarehouseWriter
}

type priceStore interface {
	repository.SupplierPriceRepository
	catalog.PriceTierWriter
}

// Stores almacenamiento elegido por STORE_DRIVER.
type Stores struct {
	Ledger     repository.LedgerRepository
	SKUs       skuStore
	Warehouses warehouseStore
	Prices     priceStore
	Sequences  repository.SequenceAllocator
}

// Container dependencias listas para cmd/api y cmd/ledgerctl.
type Container struct {
	Config  *config.Config
	Log     *logger.Logger
	Stores  Stores
	Locker  inventory.KeyLocker
	Metrics *metrics.Ledger

	Recorder      *inventory.MovementRecorder
	Query         *inventory.QueryUseCase
	Reconciler    *inventory.Reconciler
	Replenishment *inventory.ReplenishmentUseCase
	Reports       *analytics.ReportUseCase
	CatalogQuery  *catalog.QueryUseCase
	CatalogImport *catalog.ImportUseCase
	PDF           *pdf.ReportGenerator

	closers []func()
}

// New conecta el almacenamiento y construye los casos de uso.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	c := &Container{Config: cfg, Log: log, Metrics: metrics.New()}

	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("conexión a Redis %s: %w", cfg.Redis.Addr, err)
		}
		c.closers = append(c.closers, func() { _ = rdb.Close() })
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis habilitado para locks y consecutivos")
	}

	switch cfg.Ledger.StoreDriver {
	case "memory":
		c.Stores = MemoryStores()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		c.closers = append(c.closers, pool.Close)
		c.Stores = PostgresStores(pool)
	}

	if rdb != nil {
		c.Locker = lock.NewRedisLocker(rdb, cfg.Ledger.LockTTL, log.Component("lock"))
		c.Stores.Sequences = sequence.NewRedisAllocator(rdb)
	} else {
		c.Locker = lock.NewLocalLocker()
	}

	c.wire()
	return c, nil
}

// MemoryStores almacenamiento en proceso (desarrollo y tests).
func MemoryStores() Stores {
	return Stores{
		Ledger:     memory.NewLedgerStore(),
		SKUs:       memory.NewCatalog(),
		Warehouses: memory.NewWarehouses(),
		Prices:     memory.NewSupplierPrices(),
		Sequences:  memory.NewSequences(),
	}
}

// PostgresStores repositorios sobre el pool.
func PostgresStores(pool *pgxpool.Pool) Stores {
	return Stores{
		Ledger:     postgres.NewLedgerRepository(pool),
		SKUs:       postgres.NewCatalogRepository(pool),
		Warehouses: postgres.NewWarehouseRepository(pool),
		Prices:     postgres.NewSupplierPriceRepository(pool),
		Sequences:  postgres.NewSequenceRepository(pool),
	}
}

// NewWithStores arma el contenedor sobre almacenamiento ya construido, con lock local.
func NewWithStores(cfg *config.Config, log *logger.Logger, stores Stores) *Container {
	c := &Container{
		Config:  cfg,
		Log:     log,
		Stores:  stores,
		Locker:  lock.NewLocalLocker(),
		Metrics: metrics.New(),
	}
	c.wire()
	return c
}

func (c *Container) wire() {
	cfg, log, s := c.Config, c.Log, c.Stores
	pageSize := cfg.Ledger.ScanPageSize

	c.Recorder = inventory.NewMovementRecorder(inventory.RecorderDeps{
		Ledger:     s.Ledger,
		Catalog:    s.SKUs,
		Warehouses: s.Warehouses,
		Sequences:  s.Sequences,
		Locker:     c.Locker,
		Metrics:    c.Metrics,
		Logger:     log.Component("recorder"),
	}, inventory.RecorderConfig{
		MaxRetries: cfg.Ledger.MaxRetries,
		Policy:     domaininv.BalancePolicy{AllowNegativeAdjustment: cfg.Ledger.AllowNegativeAdjustment},
	})
	c.Query = inventory.NewQueryUseCase(s.Ledger, pageSize)
	c.Reconciler = inventory.NewReconciler(s.Ledger, s.SKUs, c.Metrics, log.Component("reconciler"), pageSize)
	c.Replenishment = inventory.NewReplenishmentUseCase(s.Ledger, s.SKUs, s.Warehouses, s.Prices, log.Component("reorder"), pageSize)
	c.Reports = analytics.NewReportUseCase(s.Ledger, s.SKUs, log.Component("reports"), pageSize)
	c.CatalogQuery = catalog.NewQueryUseCase(s.SKUs, s.Warehouses)
	c.CatalogImport = catalog.NewImportUseCase(s.SKUs, s.Warehouses, s.Prices, log.Component("catalog"))
	c.PDF = pdf.NewReportGenerator(cfg.App.Name)
}

// Close libera conexiones en orden inverso.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
