package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the service's Prometheus instruments.
type Collector struct {
	reg *prometheus.Registry

	RouteEstimates  prometheus.Counter
	Recommendations prometheus.Counter
	FareQuotes      prometheus.Counter
	GeocodeLookups  prometheus.Counter
	CatalogEdits    *prometheus.CounterVec // op label: create_line|update_line|add_stop|rename_stop|remove_stop
	MatchesPerQuery prometheus.Histogram
	CatalogLines    prometheus.Gauge
}

// NewCollector creates and registers all instruments.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		RouteEstimates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trufi_route_estimates_total",
			Help: "Total route estimate requests served.",
		}),
		Recommendations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trufi_recommendations_total",
			Help: "Total line recommendation passes run.",
		}),
		FareQuotes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trufi_fare_quotes_total",
			Help: "Total general fare quotes computed.",
		}),
		GeocodeLookups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trufi_geocode_lookups_total",
			Help: "Total geocoding lookups proxied.",
		}),
		CatalogEdits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trufi_catalog_edits_total",
			Help: "Total catalog mutations by operation.",
		}, []string{"op"}),
		MatchesPerQuery: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "trufi_matches_per_query",
			Help:    "Number of lines matched per recommendation pass.",
			Buckets: prometheus.LinearBuckets(0, 1, 11),
		}),
		CatalogLines: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "trufi_catalog_lines",
			Help: "Current number of lines in the catalog.",
		}),
	}

	reg.MustRegister(
		c.RouteEstimates, c.Recommendations, c.FareQuotes, c.GeocodeLookups,
		c.CatalogEdits, c.MatchesPerQuery, c.CatalogLines,
	)

	return c
}

// Handler returns the exposition handler for the collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}
