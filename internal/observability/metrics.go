package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Registry owns the collectors and backs the /metrics endpoint.
	Registry *prometheus.Registry

	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	dropoutTransitions *prometheus.CounterVec
	dropoutRejections  *prometheus.CounterVec
	penaltiesApplied   prometheus.Counter
	scoreComputations  *prometheus.CounterVec
	scoreDuration      *prometheus.HistogramVec
	eventsPublished    *prometheus.CounterVec
}

// NewMetrics registers every collector on a private registry so repeated construction in tests is safe.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recruitment_http_requests_total",
				Help: "HTTP requests by method, route and status.",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "recruitment_http_request_duration_seconds",
				Help:    "HTTP request latency by route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		dropoutTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recruitment_dropout_transitions_total",
				Help: "Committed dropout workflow transitions.",
			},
			[]string{"from", "to"},
		),
		dropoutRejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recruitment_dropout_rejections_total",
				Help: "Rejected dropout workflow operations by operation and error type.",
			},
			[]string{"operation", "reason"},
		),
		penaltiesApplied: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "recruitment_score_penalties_total",
				Help: "Score penalties materialized by accepted dropout decisions.",
			},
		),
		scoreComputations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recruitment_score_computations_total",
				Help: "EBES score computations by scope.",
			},
			[]string{"scope"},
		),
		scoreDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "recruitment_score_computation_seconds",
				Help:    "Time spent loading and reducing ledger entries into a score.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"scope"},
		),
		eventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recruitment_events_published_total",
				Help: "Domain events published on the in-process bus.",
			},
			[]string{"type"},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, http.StatusText(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) IncrDropoutTransition(from, to string) {
	if m == nil {
		return
	}
	m.dropoutTransitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) IncrDropoutRejection(operation, reason string) {
	if m == nil {
		return
	}
	m.dropoutRejections.WithLabelValues(operation, reason).Inc()
}

func (m *Metrics) IncrPenaltyApplied() {
	if m == nil {
		return
	}
	m.penaltiesApplied.Inc()
}

func (m *Metrics) RecordScoreComputation(scope string, d time.Duration) {
	if m == nil {
		return
	}
	m.scoreComputations.WithLabelValues(scope).Inc()
	m.scoreDuration.WithLabelValues(scope).Observe(d.Seconds())
}

func (m *Metrics) IncrEventPublished(eventType string) {
	if m == nil {
		return
	}
	m.eventsPublished.WithLabelValues(eventType).Inc()
}

// DropoutTransitions returns the current count for one transition edge.
func (m *Metrics) DropoutTransitions(from, to string) float64 {
	return counterValue(m.dropoutTransitions.WithLabelValues(from, to))
}

func (m *Metrics) PenaltiesApplied() float64 {
	return counterValue(m.penaltiesApplied)
}

func (m *Metrics) HTTPRequests(method, route string, status int) float64 {
	return counterValue(m.httpRequests.WithLabelValues(method, route, http.StatusText(status)))
}

func (m *Metrics) EventsPublished(eventType string) float64 {
	return counterValue(m.eventsPublished.WithLabelValues(eventType))
}
