// internal/common/metrics/metrics.go
package metrics

import (
	"time"

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

	CareerScoreValue = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "career_score_value",
			Help:    "Distribution of computed career readiness scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	KnowledgeBaseRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "career_kb_rows",
			Help: "Number of job roles currently loaded in the knowledge base",
		},
	)

	RecommendationFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "career_recommendation_fallback_total",
			Help: "Recommendations answered with the fallback intern roles",
		},
	)

	KnowledgeBaseCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "career_kb_cache_total",
			Help: "Knowledge base lookups by cache result (memory, redis, file, empty)",
		},
		[]string{"result"},
	)
)

// Cache results recorded on KnowledgeBaseCache.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheFile   = "file"
	CacheEmpty  = "empty"
)

// JobTimer tracks one job from start to completion.
type JobTimer struct {
	taskType string
	start    time.Time
}

// StartJob marks a job active and starts its timer.
func StartJob(taskType string) *JobTimer {
	WorkerJobsActive.WithLabelValues(taskType).Inc()
	return &JobTimer{taskType: taskType, start: time.Now()}
}

// Done records the job outcome. An empty errorCode counts as completed.
func (t *JobTimer) Done(errorCode string) time.Duration {
	elapsed := time.Since(t.start)
	WorkerJobsActive.WithLabelValues(t.taskType).Dec()
	WorkerJobDuration.WithLabelValues(t.taskType).Observe(elapsed.Seconds())
	if errorCode == "" {
		WorkerJobsCompleted.WithLabelValues(t.taskType).Inc()
	} else {
		WorkerJobsFailed.WithLabelValues(t.taskType, errorCode).Inc()
	}
	return elapsed
}

func RecordScore(score int) {
	CareerScoreValue.Observe(float64(score))
}

func RecordKnowledgeBaseCache(result string) {
	KnowledgeBaseCache.WithLabelValues(result).Inc()
}

func SetKnowledgeBaseRows(n int) {
	KnowledgeBaseRows.Set(float64(n))
}

func RecordRecommendationFallback() {
	RecommendationFallbacks.Inc()
}
