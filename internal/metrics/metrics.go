// Package metrics exposes Prometheus counters for agent invocations. A run is
// short-lived, so exposition is optional: collectors always record, and an
// HTTP endpoint is only started when --metrics-addr is configured (useful when
// ccheavy runs under a scheduler that scrapes it).
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Invocation outcomes recorded on the invocations counter.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeEmpty   = "empty"
)

// Metrics bundles the run's Prometheus collectors behind a private registry
// so repeated construction (tests, multiple runs in-process) never collides
// with global registration.
type Metrics struct {
	registry    *prometheus.Registry
	invocations *prometheus.CounterVec
	retries     prometheus.Counter
	durations   prometheus.Histogram
	handler     http.Handler
}

// New creates the collectors and their exposition handler.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	invocations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ccheavy_agent_invocations_total",
		Help: "Agent subprocess invocations by outcome.",
	}, []string{"outcome"})

	retries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ccheavy_agent_retries_total",
		Help: "Agent invocations retried after failure or empty output.",
	})

	durations := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "ccheavy_agent_invocation_seconds",
		Help:    "Wall-clock duration of agent subprocess invocations.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12), // 1s .. ~34m
	})

	registry.MustRegister(invocations, retries, durations)

	return &Metrics{
		registry:    registry,
		invocations: invocations,
		retries:     retries,
		durations:   durations,
		handler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}
}

// ObserveInvocation records one finished invocation with its outcome.
func (m *Metrics) ObserveInvocation(outcome string, elapsed time.Duration) {
	m.invocations.WithLabelValues(outcome).Inc()
	m.durations.Observe(elapsed.Seconds())
}

// ObserveRetry records one retry attempt.
func (m *Metrics) ObserveRetry() {
	m.retries.Inc()
}

// Handler returns the Prometheus exposition handler.
func (m *Metrics) Handler() http.Handler { return m.handler }

// Serve starts the exposition endpoint on addr and returns a shutdown
// function. Listen errors after startup are ignored; the endpoint is
// best-effort observability, never a reason to fail a run.
func (m *Metrics) Serve(addr string) func(context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.handler)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		_ = srv.ListenAndServe()
	}()

	return srv.Shutdown
}
