package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	platformmetrics "orion/internal/platform/metrics"
)

// Metrics provides observability for the registry module.
type Metrics struct {
	EntitiesRegistered *prometheus.CounterVec
	Reregistrations    prometheus.Counter
	RegisterDuration   prometheus.Histogram
}

// New registers registry metrics on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	f := platformmetrics.Factory(reg)
	return &Metrics{
		EntitiesRegistered: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: platformmetrics.Namespace,
			Name:      "entities_registered_total",
			Help:      "Total number of entity registrations by entity type",
		}, []string{"entity_type"}),
		Reregistrations: f.NewCounter(prometheus.CounterOpts{
			Namespace: platformmetrics.Namespace,
			Name:      "entity_reregistrations_total",
			Help:      "Total number of registrations that replaced an existing record",
		}),
		RegisterDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: platformmetrics.Namespace,
			Name:      "register_duration_seconds",
			Help:      "Duration of Register operations",
			Buckets:   platformmetrics.LatencyBuckets,
		}),
	}
}

// IncrementRegistered records a successful registration.
func (m *Metrics) IncrementRegistered(entityType string) {
	m.EntitiesRegistered.WithLabelValues(entityType).Inc()
}

// ObserveRegister records the duration of a Register operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveRegister(start time.Time) {
	m.RegisterDuration.Observe(time.Since(start).Seconds())
}
