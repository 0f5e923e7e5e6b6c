// Package metrics holds the Prometheus collectors of sync runs, provider calls
// and the HTTP surface. Collectors live in a private registry so tests and
// several servers in one process do not collide.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/translation"
)

const namespace = "i18nsync"

type Metrics struct {
	registry *prometheus.Registry

	units        *prometheus.CounterVec
	languages    *prometheus.CounterVec
	canonical    *prometheus.CounterVec
	providerLat  *prometheus.HistogramVec
	providerErrs *prometheus.CounterVec
	httpReqs     *prometheus.CounterVec
	httpLat      *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		units: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "units_total",
				Help:      "Sync units processed, by result (ok, noop, failed).",
			},
			[]string{"result"},
		),
		languages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "language_outcomes_total",
				Help:      "Per-language sync outcomes.",
			},
			[]string{"language", "outcome"},
		),
		canonical: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "canonical_actions_total",
				Help:      "Canonical row actions (inserted, updated, unchanged).",
			},
			[]string{"action"},
		),
		providerLat: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "provider_call_duration_seconds",
				Help:      "Duration of translation provider calls.",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"provider", "language"},
		),
		providerErrs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_errors_total",
				Help:      "Failed translation provider calls.",
			},
			[]string{"provider", "language"},
		),
		httpReqs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		httpLat: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.units,
		m.languages,
		m.canonical,
		m.providerLat,
		m.providerErrs,
		m.httpReqs,
		m.httpLat,
	)
	return m
}

// ObserveCall matches translation.CallObserver.
func (m *Metrics) ObserveCall(provider, language string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.providerLat.WithLabelValues(provider, language).Observe(elapsed.Seconds())
	if err != nil {
		m.providerErrs.WithLabelValues(provider, language).Inc()
	}
}

// ObserveReport counts the outcome of one unit.
func (m *Metrics) ObserveReport(report translation.SyncReport) {
	if m == nil {
		return
	}
	switch {
	case report.NoOp:
		m.units.WithLabelValues("noop").Inc()
	case report.Failed():
		m.units.WithLabelValues("failed").Inc()
	default:
		m.units.WithLabelValues("ok").Inc()
	}
	if report.CanonicalAction != translation.CanonicalNone {
		m.canonical.WithLabelValues(string(report.CanonicalAction)).Inc()
	}
	for _, result := range report.Languages {
		m.languages.WithLabelValues(result.Language, string(result.Outcome)).Inc()
	}
}

// Handler serves the private registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request counts and latencies. The path label is the
// registered route, falling back to the raw path when nothing matched.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			started := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			method := c.Request().Method
			status := strconv.Itoa(c.Response().Status)

			m.httpReqs.WithLabelValues(method, path, status).Inc()
			m.httpLat.WithLabelValues(method, path).Observe(time.Since(started).Seconds())
			return nil
		}
	}
}
