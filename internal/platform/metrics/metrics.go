package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every metric exported by the protocol core.
const Namespace = "orion"

// LatencyBuckets are shared by in-memory operation histograms.
var LatencyBuckets = []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05}

// Factory returns a promauto factory registering on reg.
// A nil reg registers on prometheus.DefaultRegisterer.
func Factory(reg prometheus.Registerer) promauto.Factory {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return promauto.With(reg)
}
