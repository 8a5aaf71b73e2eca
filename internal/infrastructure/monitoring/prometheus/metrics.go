// Package prometheus defines the service's Prometheus instrumentation:
// dataset load gauges, per-reason row-drop counters, and view recomputation
// counters and latencies.
package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Row-drop reasons used as the "reason" label on DatasetRowsDropped.
const (
	DropReasonMissingCoords = "missing_coordinates"
	DropReasonOutOfBounds   = "out_of_bounds"
	DropReasonMalformedRow  = "malformed_row"
)

// View kinds used as the "view" label on the view metrics.
const (
	ViewMap           = "map"
	ViewTable         = "table"
	ViewSummary       = "summary"
	ViewRelationships = "relationships"
)

// Metrics holds every collector registered by the service.
type Metrics struct {
	registry *prometheus.Registry

	// DatasetRecords is the number of valid records in the loaded dataset.
	DatasetRecords prometheus.Gauge

	// DatasetReloadsTotal counts successful dataset (re)loads.
	DatasetReloadsTotal prometheus.Counter

	// DatasetRowsDropped counts rows discarded during the last load, by reason.
	DatasetRowsDropped *prometheus.CounterVec

	// ViewRequestsTotal counts view recomputations by view kind.
	ViewRequestsTotal *prometheus.CounterVec

	// ViewComputeDuration observes recomputation latency by view kind.
	ViewComputeDuration *prometheus.HistogramVec

	// CacheHitsTotal / CacheMissesTotal count view-cache outcomes.
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter
}

// NewMetrics constructs and registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	m := &Metrics{
		registry: reg,
		DatasetRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "solarscreen",
			Name:      "dataset_records",
			Help:      "Number of valid LSOA records in the loaded dataset.",
		}),
		DatasetReloadsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "solarscreen",
			Name:      "dataset_reloads_total",
			Help:      "Number of successful dataset loads since process start.",
		}),
		DatasetRowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "solarscreen",
			Name:      "dataset_rows_dropped_total",
			Help:      "Rows discarded during dataset loads, by reason.",
		}, []string{"reason"}),
		ViewRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "solarscreen",
			Name:      "view_requests_total",
			Help:      "View recomputations served, by view kind.",
		}, []string{"view"}),
		ViewComputeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "solarscreen",
			Name:      "view_compute_duration_seconds",
			Help:      "Latency of a full filter/select/colorize pass, by view kind.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"view"}),
		CacheHitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "solarscreen",
			Name:      "view_cache_hits_total",
			Help:      "View payloads served from the cache.",
		}),
		CacheMissesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "solarscreen",
			Name:      "view_cache_misses_total",
			Help:      "View payloads recomputed after a cache miss.",
		}),
	}

	reg.MustRegister(
		m.DatasetRecords,
		m.DatasetReloadsTotal,
		m.DatasetRowsDropped,
		m.ViewRequestsTotal,
		m.ViewComputeDuration,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
	)
	return m
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
