// Package metrics exposes Prometheus instrumentation for the generation
// pipeline and the preview server's HTTP surface.
package metrics

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler serves the Prometheus text exposition format for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}

var (
	stageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "worldgen_stage_duration_seconds",
		Help:    "Duration of each generation stage",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	generationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "worldgen_generations_total",
		Help: "Generation runs by outcome",
	}, []string{"outcome"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "worldgen_http_request_duration_seconds",
		Help:    "Duration of HTTP requests served by the preview server",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method", "status"})

	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "worldgen_cache_hits_total",
		Help: "Artifact cache hits",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "worldgen_cache_misses_total",
		Help: "Artifact cache misses",
	})
)

// RecordStageDuration observes how long a named pipeline stage took.
func RecordStageDuration(stage string, d time.Duration) {
	stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordGeneration tallies a completed generation by outcome ("success",
// or an apperr Kind name such as "ConfigError", "Cancelled",
// "InvariantViolation", ...).
func RecordGeneration(outcome string) {
	generationsTotal.WithLabelValues(outcome).Inc()
}

// RecordCacheHit and RecordCacheMiss tally the artifact cache's hit rate.
func RecordCacheHit()  { cacheHits.Inc() }
func RecordCacheMiss() { cacheMisses.Inc() }

// Middleware wraps h, recording request duration per route/method/status.
// The route label should already be templated (e.g. "/world/{id}.png")
// by the router so cardinality stays bounded.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		httpDuration.WithLabelValues(route, r.Method, http.StatusText(rec.status)).Observe(time.Since(started).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
