package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	evaluationStartedTotal   atomic.Uint64
	evaluationCompletedTotal atomic.Uint64
	evaluationFailedTotal    atomic.Uint64
	evaluationPassedTotal    atomic.Uint64
	evaluationRejectedTotal  atomic.Uint64

	cacheHitTotal  atomic.Uint64
	cacheMissTotal atomic.Uint64

	workerJobsReceivedTotal             atomic.Uint64
	workerJobsCompletedTotal            atomic.Uint64
	workerJobsFailedTotal               atomic.Uint64
	workerJobsDeletedUnrecoverableTotal atomic.Uint64

	evaluationDuration = newHistogram([]float64{5, 10, 25, 50, 100, 250, 500, 1000, 5000})
)

// IncEvaluationStarted increments the started counter.
func IncEvaluationStarted() { evaluationStartedTotal.Add(1) }

// IncEvaluationCompleted increments the completed counter.
func IncEvaluationCompleted() { evaluationCompletedTotal.Add(1) }

// IncEvaluationFailed increments the failed counter.
func IncEvaluationFailed() { evaluationFailedTotal.Add(1) }

// IncEvaluationPassed counts completed evaluations at or above the job threshold.
func IncEvaluationPassed() { evaluationPassedTotal.Add(1) }

// IncEvaluationRejected counts completed evaluations below the job threshold.
func IncEvaluationRejected() { evaluationRejectedTotal.Add(1) }

func IncCacheHit() { cacheHitTotal.Add(1) }
func IncCacheMiss() { cacheMissTotal.Add(1) }

func IncWorkerJobsReceived() { workerJobsReceivedTotal.Add(1) }
func IncWorkerJobsCompleted() { workerJobsCompletedTotal.Add(1) }
func IncWorkerJobsFailed() { workerJobsFailedTotal.Add(1) }
func IncWorkerJobsDeletedUnrecoverable() { workerJobsDeletedUnrecoverableTotal.Add(1) }

// ObserveEvaluationDurationMs records an evaluation duration in milliseconds.
func ObserveEvaluationDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	evaluationDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "ats_evaluation_started_total", "Total evaluations started", evaluationStartedTotal.Load())
	writeCounter(&buf, "ats_evaluation_completed_total", "Total evaluations completed", evaluationCompletedTotal.Load())
	writeCounter(&buf, "ats_evaluation_failed_total", "Total evaluations failed", evaluationFailedTotal.Load())
	writeCounter(&buf, "ats_evaluation_passed_total", "Completed evaluations that met the minimum score", evaluationPassedTotal.Load())
	writeCounter(&buf, "ats_evaluation_rejected_total", "Completed evaluations below the minimum score", evaluationRejectedTotal.Load())
	writeCounter(&buf, "ats_result_cache_hits_total", "Scoring results served from cache", cacheHitTotal.Load())
	writeCounter(&buf, "ats_result_cache_misses_total", "Scoring results computed after a cache miss", cacheMissTotal.Load())
	writeCounter(&buf, "ats_worker_jobs_received_total", "Queue messages received by the worker", workerJobsReceivedTotal.Load())
	writeCounter(&buf, "ats_worker_jobs_completed_total", "Queue messages processed and acknowledged", workerJobsCompletedTotal.Load())
	writeCounter(&buf, "ats_worker_jobs_failed_total", "Queue messages left for redelivery", workerJobsFailedTotal.Load())
	writeCounter(&buf, "ats_worker_jobs_deleted_unrecoverable_total", "Queue messages dropped as unprocessable", workerJobsDeletedUnrecoverableTotal.Load())
	writeHistogram(&buf, "ats_evaluation_duration_ms", "Evaluation duration in milliseconds", evaluationDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
