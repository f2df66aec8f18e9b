// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StageCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_stage_completed_total",
			Help: "Total number of pipeline stage executions that succeeded",
		},
		[]string{"stage"},
	)

	StageFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_stage_failed_total",
			Help: "Total number of pipeline stage executions that failed",
		},
		[]string{"stage", "error_code"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "pipeline_stage_duration_seconds",
			Help: "Duration of pipeline stage execution in seconds",
		},
		[]string{"stage"},
	)

	QuestionsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "questions_processed_total",
			Help: "Total number of questions processed, by outcome",
		},
		[]string{"outcome"},
	)

	QuestionsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "questions_in_flight",
			Help: "Number of questions currently being processed",
		},
	)

	SearchCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_cache_hits_total",
			Help: "Search-result cache hits and misses",
		},
		[]string{"tool", "result"},
	)
)
