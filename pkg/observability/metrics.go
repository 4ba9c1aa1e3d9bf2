package observability

import (
	"time"

	"github.com/aretw0/inkwell/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "inkwell"

// Metrics groups the collectors recorded by a preprocessor run and by a
// watched context source.
type Metrics struct {
	ChaptersRendered prometheus.Counter
	RunFailures      *prometheus.CounterVec
	RunDuration      prometheus.Histogram
	ContextReloads   *prometheus.CounterVec
	TemplatesLoaded  prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ChaptersRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chapters_rendered_total",
			Help:      "Total number of chapters rendered",
		}),
		RunFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "run_failures_total",
			Help:      "Failed runs by error kind",
		}, []string{"kind"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of preprocessor runs",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		ContextReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "context_reloads_total",
			Help:      "Context reload attempts by result",
		}, []string{"result"}),
		TemplatesLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "templates_loaded",
			Help:      "Templates registered in the library before the chapters",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.ChaptersRendered, m.RunFailures, m.RunDuration, m.ContextReloads, m.TemplatesLoaded)
	}
	return m
}

// ObserveRun records the outcome of one run.
func (m *Metrics) ObserveRun(chapters int, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.RunDuration.Observe(elapsed.Seconds())
	if err != nil {
		m.RunFailures.WithLabelValues(domain.KindOf(err).String()).Inc()
		return
	}
	m.ChaptersRendered.Add(float64(chapters))
}

// ObserveReload records one context reload attempt.
func (m *Metrics) ObserveReload(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.ContextReloads.WithLabelValues(result).Inc()
}

// SetTemplates records the size of the on-disk template library.
func (m *Metrics) SetTemplates(n int) {
	if m == nil {
		return
	}
	m.TemplatesLoaded.Set(float64(n))
}
