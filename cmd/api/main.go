// @title                       Inventario Ledger API
// @version                     1.0
// @description                 Libro de movimientos de stock por bodega, reposición y reportes de inventario.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Bearer <token JWT>
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/bootstrap"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/inventario-ledger/internal/interfaces/http"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Ledger.StoreDriver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar dependencias")
	}
	defer c.Close()

	// Conciliación periódica del libro (RECONCILE_SCHEDULE vacío = desactivada)
	var sched *scheduler.Scheduler
	if cfg.Cron.ReconcileSchedule != "" {
		sched = scheduler.New(log.Component("scheduler"))
		if err := sched.Add(ctx, bootstrap.ReconcileJob(c)); err != nil {
			log.Fatal().Err(err).Msg("programar conciliación")
		}
		sched.Start()
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.DocsFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.DocsFile,
			Path:     "docs",
			Title:    "Inventario Ledger API",
		}))
	} else {
		log.Warn().Str("file", cfg.HTTP.DocsFile).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	deps := httpRouter.RouterDeps{
		Recorder:      c.Recorder,
		Query:         c.Query,
		Reconciler:    c.Reconciler,
		Replenishment: c.Replenishment,
		Reports:       c.Reports,
		CatalogQuery:  c.CatalogQuery,
		CatalogImport: c.CatalogImport,
		PDF:           c.PDF,
		MetricsPath:   cfg.Metrics.Path,
		ServiceName:   cfg.App.Name,
		JWTSecret:     cfg.JWT.Secret,
		Logger:        log.Component("http"),
	}
	if cfg.Metrics.Enabled {
		deps.Metrics = c.Metrics.Handler()
	}
	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if sched != nil {
		sched.Stop(shutdownCtx)
	}

	log.Info().Msg("aplicación detenida")
}
