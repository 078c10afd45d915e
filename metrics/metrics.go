// Package metrics registers the Prometheus collectors exposed at /metrics
// (SPEC_FULL.md §4.N): executor invocation duration/count, indexer
// operation duration, HTTP handler duration, and image-proxy outcomes.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	ExecutorDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "whynot",
			Subsystem: "executor",
			Name:      "call_duration_seconds",
			Help:      "Duration of a single executor invocation",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"tool", "variant", "outcome"},
	)

	ExecutorCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "whynot",
			Subsystem: "executor",
			Name:      "calls_total",
			Help:      "Executor invocations, by tool/variant/outcome",
		},
		[]string{"tool", "variant", "outcome"},
	)

	IndexerOpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "whynot",
			Subsystem: "indexer",
			Name:      "operation_duration_seconds",
			Help:      "Duration of an indexer client operation",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	HTTPHandlerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "whynot",
			Subsystem: "http",
			Name:      "handler_duration_seconds",
			Help:      "Duration of an HTTP handler, by route and status class",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "status"},
	)

	ImageProxyOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "whynot",
			Subsystem: "http",
			Name:      "image_proxy_outcomes_total",
			Help:      "Image proxy fetch outcomes (served, blocked, upstream_error, bad_scheme, bad_content_type)",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		ExecutorDuration,
		ExecutorCalls,
		IndexerOpDuration,
		HTTPHandlerDuration,
		ImageProxyOutcomes,
	)
}

// ObserveExecutor records one executor invocation's duration and outcome.
func ObserveExecutor(tool, variant, outcome string, d time.Duration) {
	ExecutorDuration.WithLabelValues(tool, variant, outcome).Observe(d.Seconds())
	ExecutorCalls.WithLabelValues(tool, variant, outcome).Inc()
}

// ObserveIndexerOp records one indexer.Client operation's duration.
func ObserveIndexerOp(op string, d time.Duration) {
	IndexerOpDuration.WithLabelValues(op).Observe(d.Seconds())
}

// ObserveHTTPHandler records one HTTP handler invocation's duration.
func ObserveHTTPHandler(route, status string, d time.Duration) {
	HTTPHandlerDuration.WithLabelValues(route, status).Observe(d.Seconds())
}

// ObserveImageProxy records one image-proxy fetch outcome.
func ObserveImageProxy(outcome string) {
	ImageProxyOutcomes.WithLabelValues(outcome).Inc()
}
