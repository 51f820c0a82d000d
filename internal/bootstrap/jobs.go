package bootstrap

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/infrastructure/scheduler"
)

// ReconcileJob tarea periódica de conciliación del libro.
func ReconcileJob(c *Container) scheduler.Job {
	return scheduler.Job{
		Name:     "reconcile",
		Schedule: c.Config.Cron.ReconcileSchedule,
		Timeout:  10 * time.Minute,
		Run: func(ctx context.Context) error {
			_, err := c.Reconciler.Run(ctx)
			return err
		},
	}
}
