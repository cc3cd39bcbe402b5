// Package prom exports the cache's observability hooks as Prometheus
// metrics.
package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-graphql-cache/cache"
)

// Adapter implements cache.Metrics and exports Prometheus counters/gauges.
// Safe for concurrent use; all Prometheus metric types are goroutine-safe.
type Adapter struct {
	hits     prometheus.Counter
	misses   prometheus.Counter
	writes   prometheus.Counter
	fieldErr *prometheus.CounterVec
	entities prometheus.Gauge
}

// New constructs a Prometheus metrics adapter.
//   - reg:         registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:     Prometheus namespace and subsystem
//   - constLabels: static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &Adapter{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "hits_total",
			Help:        "Field reads that found a stored value",
			ConstLabels: constLabels,
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "misses_total",
			Help:        "Field reads that found nothing",
			ConstLabels: constLabels,
		}),
		writes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "writes_total",
			Help:        "Stored field values",
			ConstLabels: constLabels,
		}),
		fieldErr: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   sub,
				Name:        "field_errors_total",
				Help:        "Field-scoped write failures by reason",
				ConstLabels: constLabels,
			},
			[]string{"reason"},
		),
		entities: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "entities",
			Help:        "Number of normalized records",
			ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(a.hits, a.misses, a.writes, a.fieldErr, a.entities)
	return a
}

// Hit increments the hit counter.
func (a *Adapter) Hit() { a.hits.Inc() }

// Miss increments the miss counter.
func (a *Adapter) Miss() { a.misses.Inc() }

// Write increments the write counter.
func (a *Adapter) Write() { a.writes.Inc() }

// FieldError increments the field error counter with a reason label.
func (a *Adapter) FieldError(reason string) {
	a.fieldErr.WithLabelValues(reason).Inc()
}

// Size updates the entity count gauge.
func (a *Adapter) Size(entities int) {
	a.entities.Set(float64(entities))
}

// Compile-time check: ensure Adapter implements cache.Metrics.
var _ cache.Metrics = (*Adapter)(nil)
