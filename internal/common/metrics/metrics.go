// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	UnderwritingDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "underwriting_decisions_total",
			Help: "Underwriting decisions by outcome and by what decided them",
		},
		[]string{"decision", "source"},
	)

	EligibilityVerdicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "underwriting_eligibility_verdicts_total",
			Help: "Eligibility gate outcomes; rule is empty for eligible submissions",
		},
		[]string{"eligible", "rule"},
	)

	DecisionCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "underwriting_decision_cache_lookups_total",
			Help: "Decision cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	DecisionPipelineDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "underwriting_decision_pipeline_seconds",
			Help:    "Time spent building the model input and classifying it",
			Buckets: prometheus.ExponentialBuckets(0.00005, 2, 14),
		},
	)
)
