package dedup

import "github.com/prometheus/client_golang/prometheus"

// PromMetrics exposes dedup outcomes as Prometheus collectors. Nothing
// in this module constructs or observes it: the coordinator copies only
// DuplicatesRemoved from a run's Metrics into its Summary, and the CLI's
// metrics registry carries only the pipeline phase histogram.
type PromMetrics struct {
	Clusters          prometheus.Gauge
	DuplicatesRemoved prometheus.Counter
	Efficiency        prometheus.Gauge
}

// NewPromMetrics registers the dedup gauges/counters on reg.
func NewPromMetrics(reg prometheus.Registerer) *PromMetrics {
	m := &PromMetrics{
		Clusters: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "curator_dedup_clusters",
			Help: "Number of channel clusters found by the last deduplication run.",
		}),
		DuplicatesRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "curator_dedup_duplicates_removed_total",
			Help: "Cumulative number of duplicate channels removed.",
		}),
		Efficiency: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "curator_dedup_efficiency_ratio",
			Help: "Ratio of retained to input channels for the last run.",
		}),
	}
	reg.MustRegister(m.Clusters, m.DuplicatesRemoved, m.Efficiency)
	return m
}

// Observe records one Run's Metrics.
func (m *PromMetrics) Observe(r Metrics) {
	if m == nil {
		return
	}
	m.Clusters.Set(float64(r.ClusterCount))
	m.DuplicatesRemoved.Add(float64(r.DuplicatesRemoved))
	m.Efficiency.Set(r.Efficiency)
}
