// Package metrics exports reference graph activity as Prometheus metrics.
//
// # Usage
//
//	reg := prometheus.NewRegistry()
//	m := metrics.New(reg)
//	g, err := graph.New(&graph.Options{Observer: m})
//
// # Metrics
//
//   - refkit_graph_allocations_total: entries created
//   - refkit_graph_acquisitions_total: counts added by re-acquire and upgrade
//   - refkit_graph_decrements_total: counts removed by cascading decrement
//   - refkit_graph_deletions_total: entries deleted
//   - refkit_graph_downgrades_total{outcome}: downgrades by survived/deleted
//   - refkit_graph_live_entries: entries currently live
//   - refkit_graph_live_bytes: bytes owned by live entries
//   - refkit_graph_capacity: entry table capacity
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/joshuapare/refkit/graph"
)

const (
	metricsNamespace = "refkit"
	graphSubsystem   = "graph"
)

// Downgrade outcome label values.
const (
	OutcomeSurvived = "survived"
	OutcomeDeleted  = "deleted"
)

// Metrics implements graph.Observer on top of Prometheus collectors.
type Metrics struct {
	Allocations  prometheus.Counter
	Acquisitions prometheus.Counter
	Decrements   prometheus.Counter
	Deletions    prometheus.Counter
	Downgrades   *prometheus.CounterVec
	LiveEntries  prometheus.Gauge
	LiveBytes    prometheus.Gauge
	Capacity     prometheus.Gauge
}

var _ graph.Observer = (*Metrics)(nil)

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered. Registering twice with the same registry panics.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Allocations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: graphSubsystem,
			Name:      "allocations_total",
			Help:      "Total entries created in the reference graph",
		}),
		Acquisitions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: graphSubsystem,
			Name:      "acquisitions_total",
			Help:      "Total strong counts added by re-acquire and upgrade",
		}),
		Decrements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: graphSubsystem,
			Name:      "decrements_total",
			Help:      "Total strong counts removed by cascading decrement",
		}),
		Deletions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: graphSubsystem,
			Name:      "deletions_total",
			Help:      "Total entries deleted and their blocks released",
		}),
		Downgrades: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: graphSubsystem,
			Name:      "downgrades_total",
			Help:      "Total downgrades by whether the entry survived",
		}, []string{"outcome"}),
		LiveEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: graphSubsystem,
			Name:      "live_entries",
			Help:      "Entries currently live in the reference graph",
		}),
		LiveBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: graphSubsystem,
			Name:      "live_bytes",
			Help:      "Bytes owned by live entries",
		}),
		Capacity: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: graphSubsystem,
			Name:      "capacity",
			Help:      "Capacity of the entry table",
		}),
	}
	if reg != nil {
		reg.MustRegister(
			m.Allocations,
			m.Acquisitions,
			m.Decrements,
			m.Deletions,
			m.Downgrades,
			m.LiveEntries,
			m.LiveBytes,
			m.Capacity,
		)
	}
	return m
}

func (m *Metrics) Allocated(_ graph.EntryID, size, _ int) {
	m.Allocations.Inc()
	m.LiveEntries.Inc()
	m.LiveBytes.Add(float64(size))
}

func (m *Metrics) Acquired(graph.EntryID, int) {
	m.Acquisitions.Inc()
}

func (m *Metrics) Decremented(graph.EntryID, int) {
	m.Decrements.Inc()
}

func (m *Metrics) Deleted(_ graph.EntryID, size int) {
	m.Deletions.Inc()
	m.LiveEntries.Dec()
	m.LiveBytes.Sub(float64(size))
}

func (m *Metrics) Downgraded(_ graph.EntryID, survived bool) {
	outcome := OutcomeDeleted
	if survived {
		outcome = OutcomeSurvived
	}
	m.Downgrades.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Resized(capacity int) {
	m.Capacity.Set(float64(capacity))
}
