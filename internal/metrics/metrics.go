package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Identity resolution outcomes
const (
	IdentityCreated  = "created"
	IdentityExisting = "existing"
	IdentityRepaired = "repaired"
	IdentityConflict = "conflict"
)

// Metrics holds the application's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests      *prometheus.CounterVec
	HTTPLatency       *prometheus.HistogramVec
	StatusTransitions *prometheus.CounterVec
	IdentityOutcomes  *prometheus.CounterVec
	UsernamesRepaired prometheus.Counter
}

// New registers every collector on reg.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pm_http_requests_total",
			Help: "Total number of HTTP requests by route, method and status",
		}, []string{"method", "route", "status"}),

		HTTPLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pm_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),

		StatusTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pm_task_status_transitions_total",
			Help: "Task status changes by target status",
		}, []string{"status"}),

		IdentityOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pm_identity_resolutions_total",
			Help: "Identity resolutions by outcome",
		}, []string{"outcome"}),

		UsernamesRepaired: factory.NewCounter(prometheus.CounterOpts{
			Name: "pm_usernames_repaired_total",
			Help: "Stored opaque usernames rewritten by the repair job",
		}),
	}
}

func (m *Metrics) ObserveStatusTransition(status string) {
	if m == nil {
		return
	}
	m.StatusTransitions.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveIdentity(outcome string) {
	if m == nil {
		return
	}
	m.IdentityOutcomes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveRepaired(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.UsernamesRepaired.Add(float64(n))
}

// Middleware records request counts and latency by matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPLatency.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
