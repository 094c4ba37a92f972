// Package metrics provides Prometheus metrics for the assessment backend.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"assessly-backend/internal/model"
)

// Submission outcomes.
const (
	OutcomeAccepted = "accepted"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "code_not_found"
	OutcomeUsed     = "code_used"
	OutcomeExpired  = "code_expired"
	OutcomeError    = "error"
)

// Manager owns the registry and every collector of the process.
type Manager struct {
	namespace string
	registry  *prometheus.Registry

	submissions    *prometheus.CounterVec
	matchedReports *prometheus.CounterVec
	catalogLookup  *prometheus.HistogramVec
	lookupErrors   *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// Option configures a Manager.
type Option func(*Manager)

// WithNamespace overrides the metric namespace.
func WithNamespace(ns string) Option {
	return func(m *Manager) { m.namespace = ns }
}

// WithProcessCollectors adds the Go runtime and process collectors.
func WithProcessCollectors() Option {
	return func(m *Manager) {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
}

// NewManager creates a manager on its own registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "assessly",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	auto := promauto.With(m.registry)
	m.submissions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "game",
		Name:      "submissions_total",
		Help:      "Game submissions by outcome",
	}, []string{"outcome"})

	m.matchedReports = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "game",
		Name:      "matched_reports_total",
		Help:      "Evaluation reports attached to games by category",
	}, []string{"category"})

	m.catalogLookup = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "catalog",
		Name:      "lookup_duration_seconds",
		Help:      "Catalog lookup latency by category and result",
		Buckets:   prometheus.DefBuckets,
	}, []string{"category", "matched"})

	m.lookupErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "catalog",
		Name:      "lookup_errors_total",
		Help:      "Failed catalog lookups by category",
	}, []string{"category"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route, method and status code",
	}, []string{"route", "method", "status_code"})

	m.httpDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route and method",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	return m
}

func (m *Manager) RecordSubmission(outcome string) {
	m.submissions.WithLabelValues(outcome).Inc()
}

func (m *Manager) RecordMatchedReport(c model.Category) {
	m.matchedReports.WithLabelValues(string(c)).Inc()
}

// ObserveCatalogLookup has the shape of a matching observer.
func (m *Manager) ObserveCatalogLookup(c model.Category, matched bool, took time.Duration, err error) {
	if err != nil {
		m.lookupErrors.WithLabelValues(string(c)).Inc()
		return
	}
	m.catalogLookup.WithLabelValues(string(c), strconv.FormatBool(matched)).Observe(took.Seconds())
}

// Middleware records request counts and latency per matched route.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}
