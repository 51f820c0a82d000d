// Package metrics expone los contadores del libro de stock en formato Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

const namespace = "ledger"

// Ledger colectores del registrador y del conciliador. Usa un registro propio para
// que varias instancias (tests) no choquen en el registro global.
type Ledger struct {
	registry *prometheus.Registry

	recorded  *prometheus.CounterVec
	rejected  *prometheus.CounterVec
	conflicts prometheus.Counter
	findings  prometheus.Gauge
	runs      prometheus.Counter
}

// New registra los colectores, incluidos los del runtime de Go y del proceso.
func New() *Ledger {
	reg := prometheus.NewRegistry()
	m := &Ledger{
		registry: reg,
		recorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "movements_recorded_total",
			Help:      "Movimientos agregados al libro, por tipo.",
		}, []string{"type"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "movements_rejected_total",
			Help:      "Movimientos rechazados, por tipo y motivo.",
		}, []string{"type", "reason"}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "concurrency_conflicts_total",
			Help:      "Conflictos de concurrencia que provocaron un reintento.",
		}),
		findings: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reconcile_findings",
			Help:      "Hallazgos de la última conciliación.",
		}),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_runs_total",
			Help:      "Conciliaciones completadas.",
		}),
	}
	reg.MustRegister(
		m.recorded, m.rejected, m.conflicts, m.findings, m.runs,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Ledger) MovementRecorded(t entity.MovementType) {
	m.recorded.WithLabelValues(string(t)).Inc()
}

func (m *Ledger) MovementRejected(t entity.MovementType, reason string) {
	m.rejected.WithLabelValues(string(t), reason).Inc()
}

func (m *Ledger) ConflictRetried() {
	m.conflicts.Inc()
}

func (m *Ledger) ReconcileFinished(findings int) {
	m.findings.Set(float64(findings))
	m.runs.Inc()
}

// Handler endpoint de scraping.
func (m *Ledger) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry acceso al registro (tests).
func (m *Ledger) Registry() *prometheus.Registry {
	return m.registry
}
