package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// summary service.
type Metrics struct {
	SummariesServed prometheus.Counter
	SummariesBuilt  prometheus.Counter
	EmptySummaries  prometheus.Counter
	SnapshotRuns    prometheus.Counter

	FetchErrors   *prometheus.CounterVec // labels: source={marine,wind}
	StoreErrors   *prometheus.CounterVec // labels: op={get,put,scan}
	PublishErrors prometheus.Counter
	LabelLookups  *prometheus.CounterVec // labels: outcome={success,error}

	BuildDuration prometheus.Histogram
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		SummariesServed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "swell_recap",
			Name:      "summaries_served_total",
			Help:      "Total daily summaries returned to callers.",
		}),
		SummariesBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "swell_recap",
			Name:      "summaries_built_total",
			Help:      "Total daily summaries built from raw hourly data.",
		}),
		EmptySummaries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "swell_recap",
			Name:      "empty_summaries_total",
			Help:      "Summaries served with every leaf null (no convertible data).",
		}),
		SnapshotRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "swell_recap",
			Name:      "snapshot_runs_total",
			Help:      "Completed snapshot passes over stored locations.",
		}),
		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swell_recap",
			Name:      "fetch_errors_total",
			Help:      "Hourly data fetch failures by source.",
		}, []string{"source"}),
		StoreErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swell_recap",
			Name:      "store_errors_total",
			Help:      "Summary store failures by operation.",
		}, []string{"op"}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "swell_recap",
			Name:      "publish_errors_total",
			Help:      "Failed summary publications to the sink topic.",
		}),
		LabelLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swell_recap",
			Name:      "label_lookups_total",
			Help:      "Place label lookups by outcome.",
		}, []string{"outcome"}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "swell_recap",
			Name:      "build_duration_seconds",
			Help:      "Duration of a complete fetch-reduce-reconcile cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}

	prometheus.MustRegister(
		m.SummariesServed,
		m.SummariesBuilt,
		m.EmptySummaries,
		m.SnapshotRuns,
		m.FetchErrors,
		m.StoreErrors,
		m.PublishErrors,
		m.LabelLookups,
		m.BuildDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		SummariesServed: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "swell_recap", Name: "summaries_served_total"}),
		SummariesBuilt:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "swell_recap", Name: "summaries_built_total"}),
		EmptySummaries:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "swell_recap", Name: "empty_summaries_total"}),
		SnapshotRuns:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "swell_recap", Name: "snapshot_runs_total"}),
		FetchErrors:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "swell_recap", Name: "fetch_errors_total"}, []string{"source"}),
		StoreErrors:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "swell_recap", Name: "store_errors_total"}, []string{"op"}),
		PublishErrors:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "swell_recap", Name: "publish_errors_total"}),
		LabelLookups:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "swell_recap", Name: "label_lookups_total"}, []string{"outcome"}),
		BuildDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "swell_recap", Name: "build_duration_seconds"}),
	}
}
