// internal/metrics/metrics.go

// Package metrics defines the Prometheus collectors of the site.
package metrics

import (
	"net/http"

	"folio/internal/task"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors, registered on their own registry.
type Metrics struct {
	Registry     *prometheus.Registry
	CatalogLoads *prometheus.CounterVec
	FeedLoads    *prometheus.CounterVec
	Searches     prometheus.Counter
	Pings        *prometheus.CounterVec
	Sessions     prometheus.Gauge
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		CatalogLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "folio",
			Name:      "catalog_loads_total",
			Help:      "Catalog load attempts by outcome.",
		}, []string{"outcome"}),
		FeedLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "folio",
			Name:      "feed_loads_total",
			Help:      "Repository feed load attempts by outcome.",
		}, []string{"outcome"}),
		Searches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "folio",
			Name:      "searches_total",
			Help:      "Catalog filter operations.",
		}),
		Pings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "folio",
			Name:      "keepalive_pings_total",
			Help:      "Keep-alive pings sent to the catalog backend by result.",
		}, []string{"result"}),
		Sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "folio",
			Name:      "sessions",
			Help:      "Visitor sessions currently held in memory.",
		}),
	}
	m.Registry.MustRegister(m.CatalogLoads, m.FeedLoads, m.Searches, m.Pings, m.Sessions)
	return m
}

// CatalogLoad counts a catalog load outcome.
func (m *Metrics) CatalogLoad(o task.Outcome) {
	m.CatalogLoads.WithLabelValues(o.String()).Inc()
}

// FeedLoad counts a feed load outcome.
func (m *Metrics) FeedLoad(o task.Outcome) {
	m.FeedLoads.WithLabelValues(o.String()).Inc()
}

// Ping counts a keep-alive ping result.
func (m *Metrics) Ping(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Pings.WithLabelValues(result).Inc()
}

// Handler exposes the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
