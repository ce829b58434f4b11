package overview

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments for the overview pipelines.
type Metrics struct {
	Passes       *prometheus.CounterVec   // labels: domain, origin={live,fallback}
	FeedRecords  *prometheus.CounterVec   // labels: domain
	PassDuration *prometheus.HistogramVec // labels: domain
}

// NewMetrics creates and registers the pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.Passes, m.FeedRecords, m.PassDuration)
	return m
}

// NewMetricsForTesting creates unregistered Metrics so parallel tests don't
// hit "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Passes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "terrapulse",
			Name:      "pipeline_passes_total",
			Help:      "Completed overview passes by domain and data origin.",
		}, []string{"domain", "origin"}),
		FeedRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "terrapulse",
			Name:      "pipeline_feed_records_total",
			Help:      "Raw records received from upstream feeds by domain.",
		}, []string{"domain"}),
		PassDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "terrapulse",
			Name:      "pipeline_pass_duration_seconds",
			Help:      "Duration of a complete fetch-aggregate-rank pass.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"domain"}),
	}
}
