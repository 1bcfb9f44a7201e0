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

	VisaDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "visa_decisions_total",
			Help: "Decisions produced, by status and outcome (gated, approved, rejected)",
		},
		[]string{"status", "outcome"},
	)

	VisaDecisionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "visa_decision_duration_seconds",
			Help:    "Time spent producing one decision",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		},
	)

	EncoderFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "visa_encoder_fallback_total",
			Help: "Categorical values missing from the label encoder table",
		},
		[]string{"field"},
	)

	ClassifierRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "visa_classifier_requests_total",
			Help: "Classifier invocations by model source and result",
		},
		[]string{"source", "result"},
	)

	PredictionCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "visa_prediction_cache_total",
			Help: "Prediction cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests served, by route pattern and status code",
		},
		[]string{"route", "code"},
	)
)
