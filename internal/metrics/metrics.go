// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Labels must stay low-cardinality: routes are patterns, never raw paths or IDs.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "jobzee",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency, by method, route pattern and status code.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	HTTPInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "jobzee",
		Name:      "http_requests_in_flight",
		Help:      "Requests currently being served.",
	})

	RegistrationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jobzee",
		Name:      "registrations_total",
		Help:      "Accounts created, by role.",
	}, []string{"role"})

	LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jobzee",
		Name:      "logins_total",
		Help:      "Login attempts, by outcome.",
	}, []string{"outcome"})

	ApplicationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jobzee",
		Name:      "applications_total",
		Help:      "Applications created, by source (user or agent).",
	}, []string{"source"})

	EventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jobzee",
		Name:      "events_published_total",
		Help:      "Domain events handed to the publisher, by type and outcome.",
	}, []string{"type", "outcome"})

	RecommendationsConsumedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jobzee",
		Name:      "recommendations_consumed_total",
		Help:      "Agent recommendation messages read from Kafka, by outcome.",
	}, []string{"outcome"})

	AgentRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jobzee",
		Name:      "agent_requests_total",
		Help:      "Calls to the AI agents, by agent and outcome.",
	}, []string{"agent", "outcome"})

	AgentRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "jobzee",
		Name:      "agent_request_duration_seconds",
		Help:      "Latency of calls to the AI agents.",
		Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"agent"})

	CacheRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jobzee",
		Name:      "cache_requests_total",
		Help:      "Read-through cache lookups, by cache name and result (hit or miss).",
	}, []string{"cache", "result"})
)

// Outcome turns an error into the "ok"/"error" label value.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
