package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for a comparison run.
type Metrics struct {
	RecordsCompared    prometheus.Counter
	RecordsExtracted   prometheus.Counter
	Discrepancies      *prometheus.CounterVec // labels: category={values,metadata,grid,time}
	ComparisonDuration prometheus.Histogram
	RunsTotal          *prometheus.CounterVec // labels: outcome={match,mismatch,error}

	// Kafka transport metrics.
	PayloadsPublished prometheus.Counter
	PayloadsConsumed  prometheus.Counter

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec   // labels: method={forward,reverse}, outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec   // labels: method={forward,reverse}, result={hit,miss}
	GeocodeAPIDuration *prometheus.HistogramVec // labels: method={forward,reverse}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RecordsCompared: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "grib_parity",
			Name:      "records_compared_total",
			Help:      "Total message records compared across runs.",
		}),
		RecordsExtracted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "grib_parity",
			Name:      "records_extracted_total",
			Help:      "Total message records extracted from decoder output.",
		}),
		Discrepancies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "grib_parity",
			Name:      "discrepancies_total",
			Help:      "Recorded discrepancies by category.",
		}, []string{"category"}),
		ComparisonDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "grib_parity",
			Name:      "comparison_duration_seconds",
			Help:      "Duration of a complete comparison run.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "grib_parity",
			Name:      "runs_total",
			Help:      "Comparison runs by outcome.",
		}, []string{"outcome"}),
		PayloadsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "grib_parity",
			Name:      "payloads_published_total",
			Help:      "Record payloads written to the records topic.",
		}),
		PayloadsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "grib_parity",
			Name:      "payloads_consumed_total",
			Help:      "Record payloads read from decode-run topics.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "grib_parity",
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by method and outcome.",
		}, []string{"method", "outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "grib_parity",
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by method and result.",
		}, []string{"method", "result"}),
		GeocodeAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "grib_parity",
			Name:      "geocode_api_duration_seconds",
			Help:      "Mapbox API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method"}),
	}

	prometheus.MustRegister(
		m.RecordsCompared,
		m.RecordsExtracted,
		m.Discrepancies,
		m.ComparisonDuration,
		m.RunsTotal,
		m.PayloadsPublished,
		m.PayloadsConsumed,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RecordsCompared:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "grib_parity", Name: "records_compared_total"}),
		RecordsExtracted:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "grib_parity", Name: "records_extracted_total"}),
		Discrepancies:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "grib_parity", Name: "discrepancies_total"}, []string{"category"}),
		ComparisonDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "grib_parity", Name: "comparison_duration_seconds"}),
		RunsTotal:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "grib_parity", Name: "runs_total"}, []string{"outcome"}),
		PayloadsPublished:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "grib_parity", Name: "payloads_published_total"}),
		PayloadsConsumed:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "grib_parity", Name: "payloads_consumed_total"}),
		GeocodeRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "grib_parity", Name: "geocode_requests_total"}, []string{"method", "outcome"}),
		GeocodeCache:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "grib_parity", Name: "geocode_cache_total"}, []string{"method", "result"}),
		GeocodeAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "grib_parity", Name: "geocode_api_duration_seconds"}, []string{"method"}),
	}
}
