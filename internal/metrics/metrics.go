// Package metrics exposes Prometheus instrumentation for the query engine.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/HerbHall/shopfind/internal/catalog"
)

const namespace = "shopfind"

// Compile-time interface guard.
var _ catalog.Observer = (*Recorder)(nil)

// Recorder records engine activity. It owns a private registry so tests and
// multiple servers in one process do not collide.
type Recorder struct {
	registry *prometheus.Registry

	queries       *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
	queryResults  prometheus.Histogram
	ranks         prometheus.Counter
	catalogSize   prometheus.Gauge
	selections    *prometheus.CounterVec
}

// NewRecorder creates a Recorder with its collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Query pipeline evaluations, by mode.",
		}, []string{"mode"}),
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Query pipeline evaluation time.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		}, []string{"mode"}),
		queryResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_results",
			Help:      "Number of products returned per query.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		ranks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rank_operations_total",
			Help:      "Explicit rank-by-views operations.",
		}),
		catalogSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_products",
			Help:      "Products currently held in the catalog store.",
		}),
		selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selections_total",
			Help:      "Product selections forwarded to the sink, by outcome.",
		}, []string{"outcome"}),
	}

	r.registry.MustRegister(
		r.queries,
		r.queryDuration,
		r.queryResults,
		r.ranks,
		r.catalogSize,
		r.selections,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func mode(fuzzy bool) string {
	if fuzzy {
		return "fuzzy"
	}
	return "browse"
}

// ObserveQuery implements catalog.Observer.
func (r *Recorder) ObserveQuery(elapsed time.Duration, results int, fuzzy bool) {
	m := mode(fuzzy)
	r.queries.WithLabelValues(m).Inc()
	r.queryDuration.WithLabelValues(m).Observe(elapsed.Seconds())
	r.queryResults.Observe(float64(results))
}

// ObserveRank implements catalog.Observer.
func (r *Recorder) ObserveRank(products int) {
	r.ranks.Inc()
	r.catalogSize.Set(float64(products))
}

// SetCatalogSize records the store size after a catalog load.
func (r *Recorder) SetCatalogSize(n int) {
	r.catalogSize.Set(float64(n))
}

// ObserveSelection counts a forwarded selection.
func (r *Recorder) ObserveSelection(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.selections.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
