package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config configuración del servicio y de ledgerctl.
type Config struct {
	App     AppConfig
	DB      DBConfig
	JWT     JWTConfig
	HTTP    HTTPConfig
	Redis   RedisConfig
	Ledger  LedgerConfig
	Metrics MetricsConfig
	Cron    CronConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string // trace, debug, info, warn, error
}

// RedisConfig conexión opcional a Redis. Con Addr vacío el lock por clave y los
// consecutivos quedan en el proceso / en PostgreSQL.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled indica si hay Redis configurado.
func (c RedisConfig) Enabled() bool { return c.Addr != "" }

// LedgerConfig parámetros del libro de inventario.
type LedgerConfig struct {
	StoreDriver             string        // postgres | memory
	MaxRetries              int           // reintentos ante conflicto de concurrencia
	AllowNegativeAdjustment bool          // un ADJUSTMENT puede dejar saldo negativo
	ScanPageSize            int           // tamaño de página de los recorridos de analítica
	LockTTL                 time.Duration // vigencia del lock distribuido por clave
}

// MetricsConfig exposición de métricas Prometheus.
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// CronConfig tareas periódicas.
type CronConfig struct {
	ReconcileSchedule string // expresión robfig/cron, p. ej. "@every 15m"; vacío = desactivado
}

// DBConfig conexión a PostgreSQL.
type DBConfig struct {
	DatabaseURL string // gana sobre los campos sueltos
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString DATABASE_URL si está definido; si no, DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN arma la URL postgres://; usuario y contraseña van escapados.
func (c DBConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig servidor HTTP.
type HTTPConfig struct {
	Host     string
	Port     int
	DocsFile string // swagger.json servido en /docs; si no existe no se monta la UI
}

// Addr host:puerto de escucha.
func (c HTTPConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// defaults valores por omisión; cualquier variable de entorno con el mismo nombre gana.
var defaults = map[string]any{
	"APP_ENV":   "development",
	"APP_NAME":  "inventario-ledger",
	"LOG_LEVEL": "info",

	"DB_HOST":    "localhost",
	"DB_PORT":    5432,
	"DB_USER":    "postgres",
	"DB_NAME":    "inventario_ledger",
	"DB_SSLMODE": "disable",

	"JWT_EXPIRATION_MINUTES": 60,
	"JWT_ISSUER":             "inventario-ledger",

	"HTTP_HOST":      "0.0.0.0",
	"HTTP_PORT":      8080,
	"HTTP_DOCS_FILE": "./docs/swagger.json",

	"REDIS_DB": 0,

	"STORE_DRIVER":                     "postgres",
	"LEDGER_MAX_RETRIES":               5,
	"LEDGER_ALLOW_NEGATIVE_ADJUSTMENT": true,
	"LEDGER_SCAN_PAGE_SIZE":            500,
	"LEDGER_LOCK_TTL":                  10 * time.Second,

	"METRICS_ENABLED": true,
	"METRICS_PATH":    "/metrics",

	"RECONCILE_SCHEDULE": "@every 15m",
}

// Load arma la configuración desde .env / config.env (si existen) y variables de entorno.
func Load() (*Config, error) {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.SetConfigType("env")
	for _, name := range []string{".env", "config"} {
		v.SetConfigName(name)
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		_ = v.MergeInConfig() // el archivo es opcional
	}
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Env:      v.GetString("APP_ENV"),
			Name:     v.GetString("APP_NAME"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		DB: DBConfig{
			DatabaseURL: v.GetString("DATABASE_URL"),
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetInt("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASSWORD"),
			DBName:      v.GetString("DB_NAME"),
			SSLMode:     v.GetString("DB_SSLMODE"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("JWT_SECRET"),
			Expiration: v.GetInt("JWT_EXPIRATION_MINUTES"),
			Issuer:     v.GetString("JWT_ISSUER"),
		},
		HTTP: HTTPConfig{
			Host:     v.GetString("HTTP_HOST"),
			Port:     v.GetInt("HTTP_PORT"),
			DocsFile: v.GetString("HTTP_DOCS_FILE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Ledger: LedgerConfig{
			StoreDriver:             strings.ToLower(v.GetString("STORE_DRIVER")),
			MaxRetries:              v.GetInt("LEDGER_MAX_RETRIES"),
			AllowNegativeAdjustment: v.GetBool("LEDGER_ALLOW_NEGATIVE_ADJUSTMENT"),
			ScanPageSize:            v.GetInt("LEDGER_SCAN_PAGE_SIZE"),
			LockTTL:                 v.GetDuration("LEDGER_LOCK_TTL"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("METRICS_ENABLED"),
			Path:    v.GetString("METRICS_PATH"),
		},
		Cron: CronConfig{
			ReconcileSchedule: v.GetString("RECONCILE_SCHEDULE"),
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Ledger.StoreDriver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("config: STORE_DRIVER %q no soportado (postgres|memory)", c.Ledger.StoreDriver)
	}
	if c.Ledger.MaxRetries < 0 {
		return fmt.Errorf("config: LEDGER_MAX_RETRIES no puede ser negativo")
	}
	if c.Ledger.ScanPageSize <= 0 {
		return fmt.Errorf("config: LEDGER_SCAN_PAGE_SIZE debe ser positivo")
	}
	return nil
}
