// Package metrics exposes Prometheus counters and histograms for the site.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the narrow interface the middleware and services depend on.
type Recorder interface {
	RecordRequest(route, method string, status int, duration time.Duration)
	RecordView(contentType string)
	RecordFunction(name, outcome string)
	RecordUpload(bucket, outcome string)
}

// Collector is the Prometheus-backed Recorder.
type Collector struct {
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	views     *prometheus.CounterVec
	functions *prometheus.CounterVec
	uploads   *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ivonews_http_requests_total",
			Help: "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ivonews_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		views: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ivonews_content_views_total",
			Help: "Detail page views by content type.",
		}, []string{"type"}),
		functions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ivonews_function_invocations_total",
			Help: "AI function invocations by name and outcome.",
		}, []string{"name", "outcome"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ivonews_uploads_total",
			Help: "Image uploads by bucket and outcome.",
		}, []string{"bucket", "outcome"}),
	}

	reg.MustRegister(c.requests, c.duration, c.views, c.functions, c.uploads)
	return c
}

// RecordRequest counts a finished HTTP request and observes its latency.
func (c *Collector) RecordRequest(route, method string, status int, duration time.Duration) {
	c.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	c.duration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordView counts a detail page view.
func (c *Collector) RecordView(contentType string) {
	c.views.WithLabelValues(contentType).Inc()
}

// RecordFunction counts an AI function invocation.
func (c *Collector) RecordFunction(name, outcome string) {
	c.functions.WithLabelValues(name, outcome).Inc()
}

// RecordUpload counts an upload attempt.
func (c *Collector) RecordUpload(bucket, outcome string) {
	c.uploads.WithLabelValues(bucket, outcome).Inc()
}

// Nop discards everything. Used by tests and when metrics are not wired.
type Nop struct{}

func (Nop) RecordRequest(string, string, int, time.Duration) {}
func (Nop) RecordView(string)                                {}
func (Nop) RecordFunction(string, string)                    {}
func (Nop) RecordUpload(string, string)                      {}

// Handler returns the HTTP handler Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
