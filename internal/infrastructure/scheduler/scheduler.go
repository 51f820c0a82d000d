// Package scheduler ejecuta tareas periódicas (conciliación del libro) con robfig/cron.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job tarea periódica.
type Job struct {
	Name     string
	Schedule string // expresión cron estándar o descriptor (@every 1h, @daily)
	Timeout  time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler envuelve cron.Cron. Una ejecución que aún no termina hace saltar la siguiente.
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
}

// New construye el planificador sin arrancarlo.
func New(log zerolog.Logger) *Scheduler {
	cl := cron.PrintfLogger(&log)
	return &Scheduler{
		cron: cron.New(cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		log:  log,
	}
}

// Add registra la tarea; falla si la expresión es inválida.
func (s *Scheduler) Add(ctx context.Context, j Job) error {
	run := j.Run
	name := j.Name
	timeout := j.Timeout
	_, err := s.cron.AddFunc(j.Schedule, func() {
		jobCtx := ctx
		if timeout > 0 {
			var cancel context.CancelFunc
			jobCtx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		start := time.Now()
		if err := run(jobCtx); err != nil {
			s.log.Error().Err(err).Str("job", name).Msg("tarea programada falló")
			return
		}
		s.log.Info().Str("job", name).Dur("elapsed", time.Since(start)).Msg("tarea programada completada")
	})
	if err != nil {
		return fmt.Errorf("registrar tarea %s (%q): %w", name, j.Schedule, err)
	}
	return nil
}

// Start arranca en segundo plano.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop detiene el planificador y espera a que terminen las tareas en curso o ctx expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("tareas programadas aún en curso al apagar")
	}
}
