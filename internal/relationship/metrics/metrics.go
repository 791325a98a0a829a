package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	platformmetrics "orion/internal/platform/metrics"
)

// Metrics provides observability for relationships and message exchange.
type Metrics struct {
	Established         *prometheus.CounterVec
	Terminations        *prometheus.CounterVec
	Messages            *prometheus.CounterVec
	Violations          *prometheus.CounterVec
	ActiveRelationships prometheus.Gauge
	SendDuration        prometheus.Histogram
}

// New registers relationship metrics on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	f := platformmetrics.Factory(reg)
	return &Metrics{
		Established: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: platformmetrics.Namespace,
			Name:      "relationships_established_total",
			Help:      "Total number of relationships established by termination control",
		}, []string{"termination_control"}),
		Terminations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: platformmetrics.Namespace,
			Name:      "relationship_terminations_total",
			Help:      "Termination requests by outcome",
		}, []string{"outcome"}),
		Messages: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: platformmetrics.Namespace,
			Name:      "messages_total",
			Help:      "Messages sent within relationships by status",
		}, []string{"status"}),
		Violations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: platformmetrics.Namespace,
			Name:      "communication_violations_total",
			Help:      "Communication standard violations detected by kind",
		}, []string{"violation"}),
		ActiveRelationships: f.NewGauge(prometheus.GaugeOpts{
			Namespace: platformmetrics.Namespace,
			Name:      "relationships_active",
			Help:      "Number of relationships currently ACTIVE",
		}),
		SendDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: platformmetrics.Namespace,
			Name:      "send_duration_seconds",
			Help:      "Duration of Send operations",
			Buckets:   platformmetrics.LatencyBuckets,
		}),
	}
}

// IncrementEstablished records a new relationship and bumps the active gauge.
func (m *Metrics) IncrementEstablished(control string) {
	m.Established.WithLabelValues(control).Inc()
	m.ActiveRelationships.Inc()
}

// IncrementTermination records a termination attempt. A "terminated"
// outcome also lowers the active gauge.
func (m *Metrics) IncrementTermination(outcome string) {
	m.Terminations.WithLabelValues(outcome).Inc()
	if outcome == "terminated" {
		m.ActiveRelationships.Dec()
	}
}

func (m *Metrics) IncrementMessage(status string, violations []string) {
	m.Messages.WithLabelValues(status).Inc()
	for _, v := range violations {
		m.Violations.WithLabelValues(v).Inc()
	}
}

// ObserveSend records the duration of a Send operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveSend(start time.Time) {
	m.SendDuration.Observe(time.Since(start).Seconds())
}
