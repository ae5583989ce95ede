// Package metrics provides Prometheus instrumentation for the ThreadKit
// moderation service. It exposes counters for decisions by outcome and rule,
// histograms for decision latency, and gauges for the blocked-word cache.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// DecisionsTotal counts moderation decisions, labeled by outcome
	// ("approved", "rejected") and the rule that produced the verdict
	// ("none", "validation", "duplicate", "embedded_code", "links",
	// "blocked_words", "spam", "sentiment", "caps", "repetition",
	// "engine_error").
	DecisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "threadkit_moderation_decisions_total",
		Help: "Total number of moderation decisions",
	}, []string{"outcome", "rule"})

	// TrustOverridesTotal counts soft rejections flipped to approvals for
	// high-trust users.
	TrustOverridesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "threadkit_moderation_trust_overrides_total",
		Help: "Total number of rejections overridden by user trust",
	})

	// DecisionLatency records end-to-end decision latency in seconds.
	DecisionLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "threadkit_moderation_decision_latency_seconds",
		Help:    "Moderation decision latency in seconds",
		Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
	})

	// WordCacheSize tracks the number of active blocked words in the
	// in-memory cache.
	WordCacheSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "threadkit_moderation_word_cache_size",
		Help: "Number of blocked words in the in-memory cache",
	})

	// WordCacheRefreshFailures counts failed word-list refreshes (the cache
	// keeps serving the previous snapshot on failure).
	WordCacheRefreshFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "threadkit_moderation_word_cache_refresh_failures_total",
		Help: "Total number of failed blocked-word cache refreshes",
	})

	// TrustUpdateFailures counts failed asynchronous trust-record updates.
	TrustUpdateFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "threadkit_moderation_trust_update_failures_total",
		Help: "Total number of failed async trust score updates",
	})

	// LogWriteFailures counts failed moderation-log appends. Decisions are
	// still returned; only the audit trail is incomplete.
	LogWriteFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "threadkit_moderation_log_write_failures_total",
		Help: "Total number of failed moderation log writes",
	})
)

func init() {
	prometheus.MustRegister(
		DecisionsTotal,
		TrustOverridesTotal,
		DecisionLatency,
		WordCacheSize,
		WordCacheRefreshFailures,
		TrustUpdateFailures,
		LogWriteFailures,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
