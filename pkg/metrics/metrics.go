// Package metrics exposes Prometheus counters for the portfolio site.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "signal"

var (
	pageViewsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_views_total",
			Help:      "Total number of rendered pages",
		},
		[]string{"page"},
	)

	catalogLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_loads_total",
			Help:      "Total number of catalog loads that missed the cache",
		},
		[]string{"source", "status"}, // status: success, error
	)

	catalogLoadDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "catalog_load_duration_seconds",
			Help:      "Duration of catalog loads in seconds",
			Buckets:   []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"source"},
	)

	inquiriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inquiries_total",
			Help:      "Total number of contact form submissions",
		},
		[]string{"status"}, // status: accepted, invalid, error
	)

	allMetrics = []prometheus.Collector{
		pageViewsTotal,
		catalogLoadsTotal,
		catalogLoadDuration,
		inquiriesTotal,
	}

	registry     *prometheus.Registry
	registryOnce sync.Once
)

// Registry returns the registry holding the site metrics and Go runtime metrics
func Registry() *prometheus.Registry {
	registryOnce.Do(func() {
		registry = prometheus.NewRegistry()
		for _, c := range allMetrics {
			registry.MustRegister(c)
		}
		registry.MustRegister(collectors.NewGoCollector())
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
	return registry
}

// Handler serves the registry in the Prometheus exposition format
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry(), promhttp.HandlerOpts{})
}

// RecordPageView counts a rendered page
func RecordPageView(page string) {
	pageViewsTotal.WithLabelValues(page).Inc()
}

// RecordCatalogLoad records a catalog load from source
func RecordCatalogLoad(source, status string, durationSeconds float64) {
	catalogLoadsTotal.WithLabelValues(source, status).Inc()
	catalogLoadDuration.WithLabelValues(source).Observe(durationSeconds)
}

// RecordInquiry counts a contact form submission
func RecordInquiry(status string) {
	inquiriesTotal.WithLabelValues(status).Inc()
}
