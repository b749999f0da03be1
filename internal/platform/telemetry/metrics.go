package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PredictionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "surgewatch_predictions_total",
		Help: "Total daily predictions generated.",
	})

	FallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "surgewatch_prediction_fallbacks_total",
		Help: "Predictions served by the rule-based fallback instead of the model.",
	})

	EnrichmentFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "surgewatch_enrichment_failures_total",
		Help: "External enrichment fetches that fell back to defaults.",
	}, []string{"source"})

	CacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "surgewatch_cache_hits_total",
		Help: "Cache hits by tier.",
	}, []string{"tier"})

	CacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "surgewatch_cache_misses_total",
		Help: "Cache lookups that missed every tier.",
	})

	PipelineDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "surgewatch_pipeline_duration_seconds",
		Help:    "End-to-end duration of the daily prediction pipeline.",
		Buckets: prometheus.DefBuckets,
	})
)
