package cluster

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "pyleus"

// Metrics counts the tuples flowing through a local topology.
type Metrics struct {
	Emitted *prometheus.CounterVec
	Acked   *prometheus.CounterVec
	Failed  *prometheus.CounterVec
	Latency *prometheus.HistogramVec
}

// NewMetrics creates the topology metrics and registers them with reg when
// reg is not nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Emitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: metricsNamespace, Name: "tuples_emitted_total", Help: "Tuples emitted by component and stream"},
			[]string{"component", "stream"},
		),
		Acked: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: metricsNamespace, Name: "tuples_acked_total", Help: "Tuples acked by component"},
			[]string{"component"},
		),
		Failed: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: metricsNamespace, Name: "tuples_failed_total", Help: "Tuples failed by component"},
			[]string{"component"},
		),
		Latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Namespace: metricsNamespace, Name: "process_duration_seconds", Help: "Bolt processing time", Buckets: prometheus.DefBuckets},
			[]string{"component"},
		),
	}

	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.Emitted, m.Acked, m.Failed, m.Latency} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
