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

	OffersProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ranking_offers_processed_total",
			Help: "Total number of provider offers fed into deduplication",
		},
		[]string{"provider"},
	)

	CardsBuilt = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ranking_cards_built",
			Help:    "Number of hotel cards produced per ranking request",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	PriceDropsDetected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "price_drops_detected_total",
			Help: "Total number of price drops detected against stored snapshots",
		},
	)
)
