package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/pkg/config"
)

func TestLoad_ValoresDelLibroDesdeEntorno(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("LEDGER_MAX_RETRIES", "3")
	t.Setenv("LEDGER_ALLOW_NEGATIVE_ADJUSTMENT", "false")
	t.Setenv("LEDGER_LOCK_TTL", "3s")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("RECONCILE_SCHEDULE", "@every 1h")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Ledger.StoreDriver)
	assert.Equal(t, 3, cfg.Ledger.MaxRetries)
	assert.False(t, cfg.Ledger.AllowNegativeAdjustment)
	assert.Equal(t, 3*time.Second, cfg.Ledger.LockTTL)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "@every 1h", cfg.Cron.ReconcileSchedule)
}

func TestLoad_DriverDesconocido(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "ledger", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/ledger?sslmode=disable", c.DSN())
	assert.Equal(t, c.DSN(), c.ConnectionString())
}

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("STORE_DRIVER", "MEMORY")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Ledger.StoreDriver)
	assert.Equal(t, 5, cfg.Ledger.MaxRetries)
	assert.True(t, cfg.Ledger.AllowNegativeAdjustment)
	assert.Equal(t, 500, cfg.Ledger.ScanPageSize)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_PaginaDeRecorridoInvalida(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("LEDGER_SCAN_PAGE_SIZE", "0")

	_, err := config.Load()
	assert.Error(t, err)
}
