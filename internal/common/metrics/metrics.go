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

	// outcome is "predicted" or "unavailable"
	RankPredictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rank_predictions_total",
			Help: "Rank predictions attempted, by exam and outcome",
		},
		[]string{"exam", "outcome"},
	)

	SeatFilterMatches = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "seat_filter_matches",
			Help:    "Number of seat records returned per filter call",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 1000},
		},
		[]string{"exam"},
	)

	SeatRecordsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seat_records_skipped_total",
			Help: "Seat records excluded from filtering because a field could not be parsed",
		},
		[]string{"reason"},
	)

	QueriesClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "queries_classified_total",
			Help: "Queries classified, by query type",
		},
		[]string{"query_type"},
	)

	SeatCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seat_cache_lookups_total",
			Help: "filter-seats cache lookups, by result (hit, miss, error)",
		},
		[]string{"result"},
	)
)
