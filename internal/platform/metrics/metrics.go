// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector the service records to.
type Metrics struct {
	registry *prometheus.Registry

	Transitions   *prometheus.CounterVec
	SweepRuns     *prometheus.CounterVec
	SweepOutdated prometheus.Counter
	Notifications *prometheus.CounterVec
	HTTPRequests  *prometheus.CounterVec
	HTTPDurations *prometheus.HistogramVec
}

// New creates the collectors on a private registry together with the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "care",
			Name:      "transitions_total",
			Help:      "Care status transition requests by actor, statuses and result.",
		}, []string{"actor", "from", "to", "result"}),
		SweepRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "care",
			Name:      "sweep_runs_total",
			Help:      "Daily outdating sweeps by result.",
		}, []string{"result"}),
		SweepOutdated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "care",
			Name:      "sweep_outdated_total",
			Help:      "Cares moved to outdated by the sweep.",
		}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "care",
			Name:      "notifications_total",
			Help:      "Notification requests by message and result.",
		}, []string{"message", "result"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "care",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "care",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		m.Transitions,
		m.SweepRuns,
		m.SweepOutdated,
		m.Notifications,
		m.HTTPRequests,
		m.HTTPDurations,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Gatherer exposes the registry for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// ObserveTransition records the outcome of one transition request.
func (m *Metrics) ObserveTransition(actor, from, to string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "rejected"
	}
	m.Transitions.WithLabelValues(actor, from, to, result).Inc()
}

// ObserveSweep records a sweep run.
func (m *Metrics) ObserveSweep(outdated int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.SweepRuns.WithLabelValues("error").Inc()
	} else {
		m.SweepRuns.WithLabelValues("ok").Inc()
	}
	m.SweepOutdated.Add(float64(outdated))
}

// ObserveNotification records a notification publish attempt.
func (m *Metrics) ObserveNotification(message string, err error) {
	if m == nil {
		return
	}
	result := "sent"
	if err != nil {
		result = "failed"
	}
	m.Notifications.WithLabelValues(message, result).Inc()
}

// Middleware records request count and latency per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPDurations.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
