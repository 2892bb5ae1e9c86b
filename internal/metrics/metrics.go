// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics records query outcomes and HTTP traffic as Prometheus
// metrics. A Recorder registers its collectors on the registry it is given,
// so tests can use a fresh registry per case.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pdiddy/book-recommender/internal/match"
	"github.com/pdiddy/book-recommender/internal/recommend"
)

const namespace = "book_recommender"

// Recorder holds the collectors for one process.
type Recorder struct {
	recommendTotal    *prometheus.CounterVec
	recommendDuration prometheus.Histogram
	popularTotal      prometheus.Counter
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	catalogTitles     prometheus.Gauge
}

// NewRecorder creates a Recorder and registers its collectors on reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		recommendTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommend_queries_total",
			Help:      "Recommendation queries by outcome and match tier.",
		}, []string{"status", "tier"}),
		recommendDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recommend_duration_seconds",
			Help:      "Time to answer a recommendation query.",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		}),
		popularTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "popular_queries_total",
			Help:      "Popular-view queries served.",
		}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		catalogTitles: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_titles",
			Help:      "Entries in the loaded title index.",
		}),
	}
}

// ObserveRecommend implements recommend.Observer.
func (r *Recorder) ObserveRecommend(status recommend.Status, tier match.Tier, elapsed time.Duration) {
	r.recommendTotal.WithLabelValues(string(status), tier.String()).Inc()
	r.recommendDuration.Observe(elapsed.Seconds())
}

// ObservePopular counts one popular-view query.
func (r *Recorder) ObservePopular() {
	r.popularTotal.Inc()
}

// SetCatalogTitles records the size of the loaded title index.
func (r *Recorder) SetCatalogTitles(n int) {
	r.catalogTitles.Set(float64(n))
}

// Middleware records request count and latency under route. A handler
// that writes nothing is counted as 200, matching what net/http sends.
func (r *Recorder) Middleware(route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
			next.ServeHTTP(ww, req)
			code := ww.Status()
			if code == 0 {
				code = http.StatusOK
			}
			r.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
			r.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		})
	}
}
