package pipeline

import "github.com/prometheus/client_golang/prometheus"

// PromMetrics exposes per-phase durations, wired by the CLI when
// config.View.MetricsEnabled is set.
type PromMetrics struct {
	PhaseDuration *prometheus.HistogramVec
}

func NewPromMetrics(reg prometheus.Registerer) *PromMetrics {
	m := &PromMetrics{
		PhaseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "curator_pipeline_phase_duration_seconds",
			Help:    "Duration of each pipeline phase.",
			Buckets: prometheus.DefBuckets,
		}, []string{"phase", "status"}),
	}
	reg.MustRegister(m.PhaseDuration)
	return m
}

func (m *PromMetrics) observe(r PhaseResult) {
	if m == nil {
		return
	}
	m.PhaseDuration.WithLabelValues(r.Name, string(r.Status)).Observe(r.Duration.Seconds())
}
