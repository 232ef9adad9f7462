package tagview

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of a Factory and a Compiler.
// A nil *Metrics records nothing.
type Metrics struct {
	renders  *prometheus.CounterVec
	cache    *prometheus.CounterVec
	compiles prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg. Collectors
// already registered by another instance are shared.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tagview",
			Subsystem: "factory",
			Name:      "renders_total",
			Help:      "Component renders by component and result",
		}, []string{"component", "result"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tagview",
			Subsystem: "factory",
			Name:      "cache_lookups_total",
			Help:      "Component render cache lookups by mode and outcome",
		}, []string{"mode", "outcome"}),
		compiles: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tagview",
			Subsystem: "compiler",
			Name:      "compile_duration_seconds",
			Help:      "Time spent compiling view source into templates",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
	}
	if reg == nil {
		return m
	}
	m.renders = register(reg, m.renders)
	m.cache = register(reg, m.cache)
	m.compiles = register(reg, m.compiles)
	return m
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}

func (m *Metrics) render(component, result string) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(component, result).Inc()
}

func (m *Metrics) lookup(mode, outcome string) {
	if m == nil {
		return
	}
	m.cache.WithLabelValues(mode, outcome).Inc()
}

func (m *Metrics) compiled(start time.Time) {
	if m == nil {
		return
	}
	m.compiles.Observe(time.Since(start).Seconds())
}
