package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the process collectors. Each instance owns its own
// prometheus registry so tests can build servers independently.
type Registry struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	augmentation *prometheus.CounterVec
	augmentTime  prometheus.Histogram
}

func New() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leadqualifier_http_requests_total",
			Help: "HTTP requests served, by route pattern and status code.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "leadqualifier_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		augmentation: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leadqualifier_augmentation_calls_total",
			Help: "Lead augmentation calls by outcome.",
		}, []string{"outcome"}),
		augmentTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "leadqualifier_augmentation_duration_seconds",
			Help:    "Lead augmentation call latency.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}),
	}
	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.httpRequests,
		r.httpDuration,
		r.augmentation,
		r.augmentTime,
	)
	return r
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Registry) ObserveHTTP(route string, method string, status int, elapsed time.Duration) {
	r.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// ObserveAugmentation records one augmenter call.
func (r *Registry) ObserveAugmentation(outcome string, elapsed time.Duration) {
	r.augmentation.WithLabelValues(outcome).Inc()
	r.augmentTime.Observe(elapsed.Seconds())
}
