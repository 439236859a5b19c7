// Package metrics collects Prometheus metrics for API calls made by the client
// and for requests served by the fake service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels
const (
	OutcomeSuccess        = "success"
	OutcomeSessionExpired = "session_expired"
	OutcomeValidation     = "validation"
	OutcomeService        = "service"
	OutcomeNetwork        = "network"
)

// Recorder is what the API client reports to.
type Recorder interface {
	RecordRequest(operation, outcome string, duration time.Duration)
	RecordSessionExpired()
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordRequest(string, string, time.Duration) {}
func (Nop) RecordSessionExpired()                       {}

// Collector is the Prometheus Recorder.
type Collector struct {
	requests       *prometheus.CounterVec
	latency        *prometheus.HistogramVec
	sessionExpired prometheus.Counter
}

var _ Recorder = (*Collector)(nil)

// NewCollector creates a Collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "neuroguard_api_requests_total",
			Help: "API calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "neuroguard_api_request_duration_seconds",
			Help:    "API call latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		sessionExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "neuroguard_session_expired_total",
			Help: "Responses that ended the session (HTTP 401).",
		}),
	}

	reg.MustRegister(c.requests, c.latency, c.sessionExpired)
	return c
}

func (c *Collector) RecordRequest(operation, outcome string, duration time.Duration) {
	c.requests.WithLabelValues(operation, outcome).Inc()
	c.latency.WithLabelValues(operation).Observe(duration.Seconds())
}

func (c *Collector) RecordSessionExpired() {
	c.sessionExpired.Inc()
}

// ServerCollector counts requests served by the fake service.
type ServerCollector struct {
	requests *prometheus.CounterVec
}

// NewServerCollector creates a ServerCollector and registers it with reg.
func NewServerCollector(reg prometheus.Registerer) *ServerCollector {
	c := &ServerCollector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "neuroguard_fake_service_requests_total",
			Help: "Requests served by the fake service by route and status code.",
		}, []string{"route", "status_code"}),
	}
	reg.MustRegister(c.requests)
	return c
}

func (c *ServerCollector) RecordServed(route string, statusCode int) {
	c.requests.WithLabelValues(route, strconv.Itoa(statusCode)).Inc()
}

// Handler exposes the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
