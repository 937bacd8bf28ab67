package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the ETL pipeline.
type Metrics struct {
	PagesFetched     prometheus.Counter
	FetchErrors      prometheus.Counter
	ExtractErrors    prometheus.Counter
	EntriesExtracted prometheus.Counter
	PipelineRunning  prometheus.Gauge

	PageFetchDuration prometheus.Histogram

	// Geocoding metrics.
	GeocodeRequests        *prometheus.CounterVec // labels: outcome={success,empty,error}
	GeocodeCache           *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeAPIDuration     prometheus.Histogram
	GeocodeBudgetRemaining prometheus.Gauge
	GeocodeEnabled         prometheus.Gauge

	// Export metrics.
	RecordsExported *prometheus.CounterVec // labels: sink={csv,map,kafka}
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		PagesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crash_etl",
			Name:      "pages_fetched_total",
			Help:      "Total archive pages fetched successfully.",
		}),
		FetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crash_etl",
			Name:      "fetch_errors_total",
			Help:      "Total archive page fetches that failed.",
		}),
		ExtractErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crash_etl",
			Name:      "extract_errors_total",
			Help:      "Total pages where field extraction failed.",
		}),
		EntriesExtracted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crash_etl",
			Name:      "entries_extracted_total",
			Help:      "Total accident entries extracted from archive pages.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "crash_etl",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		PageFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "crash_etl",
			Name:      "page_fetch_duration_seconds",
			Help:      "Duration of a single archive page fetch.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crash_etl",
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crash_etl",
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "crash_etl",
			Name:      "geocode_api_duration_seconds",
			Help:      "Mapbox API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		GeocodeBudgetRemaining: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "crash_etl",
			Name:      "geocode_budget_remaining",
			Help:      "Geocoding lookups left in the current UTC day.",
		}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "crash_etl",
			Name:      "geocode_enabled",
			Help:      "1 when geocoding enrichment is enabled, 0 otherwise.",
		}),
		RecordsExported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crash_etl",
			Name:      "records_exported_total",
			Help:      "Records written per export sink.",
		}, []string{"sink"}),
	}

	prometheus.MustRegister(
		m.PagesFetched,
		m.FetchErrors,
		m.ExtractErrors,
		m.EntriesExtracted,
		m.PipelineRunning,
		m.PageFetchDuration,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeBudgetRemaining,
		m.GeocodeEnabled,
		m.RecordsExported,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		PagesFetched:           prometheus.NewCounter(prometheus.CounterOpts{Namespace: "crash_etl", Name: "pages_fetched_total"}),
		FetchErrors:            prometheus.NewCounter(prometheus.CounterOpts{Namespace: "crash_etl", Name: "fetch_errors_total"}),
		ExtractErrors:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: "crash_etl", Name: "extract_errors_total"}),
		EntriesExtracted:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "crash_etl", Name: "entries_extracted_total"}),
		PipelineRunning:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "crash_etl", Name: "pipeline_running"}),
		PageFetchDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "crash_etl", Name: "page_fetch_duration_seconds"}),
		GeocodeRequests:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "crash_etl", Name: "geocode_requests_total"}, []string{"outcome"}),
		GeocodeCache:           prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "crash_etl", Name: "geocode_cache_total"}, []string{"result"}),
		GeocodeAPIDuration:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "crash_etl", Name: "geocode_api_duration_seconds"}),
		GeocodeBudgetRemaining: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "crash_etl", Name: "geocode_budget_remaining"}),
		GeocodeEnabled:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "crash_etl", Name: "geocode_enabled"}),
		RecordsExported:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "crash_etl", Name: "records_exported_total"}, []string{"sink"}),
	}
}
