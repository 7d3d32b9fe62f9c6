package service

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Rejection reasons reported in the rejections counter.
const (
	RejectDuplicate     = "duplicate_voter"
	RejectMiningTimeout = "mining_timeout"
)

// MetricsCollector tracks submission and mining performance. Every value is
// kept both in a summary snapshot and in Prometheus collectors registered on
// the collector's own registry.
type MetricsCollector struct {
	mu                  sync.RWMutex
	submissionStartTime time.Time
	submissionEndTime   time.Time
	submissionCount     int
	submissionTotalTime time.Duration
	noncesTried         uint64
	rejections          map[string]int

	registry     *prometheus.Registry
	submissions  prometheus.Counter
	rejected     *prometheus.CounterVec
	nonces       prometheus.Counter
	sealDuration prometheus.Histogram
	chainLength  prometheus.Gauge
}

// OperationMetrics contains timing information for an operation
type OperationMetrics struct {
	StartTime      time.Time      `json:"start_time"`
	EndTime        time.Time      `json:"end_time"`
	Count          int            `json:"count"`
	ProcessingTime int64          `json:"processing_time_ms"`
	NoncesTried    uint64         `json:"nonces_tried"`
	Rejections     map[string]int `json:"rejections"`
}

type MetricsResponse struct {
	Submission OperationMetrics `json:"submission"`
}

func NewMetricsCollector() *MetricsCollector {
	mc := &MetricsCollector{
		rejections: make(map[string]int),
		registry:   prometheus.NewRegistry(),
		submissions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vote_ledger",
			Name:      "submissions_total",
			Help:      "Votes accepted into the ledger.",
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vote_ledger",
			Name:      "rejections_total",
			Help:      "Submissions rejected, by reason.",
		}, []string{"reason"}),
		nonces: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vote_ledger",
			Name:      "nonces_tried_total",
			Help:      "Nonces evaluated by accepted proof-of-work searches.",
		}),
		sealDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "vote_ledger",
			Name:      "submission_duration_seconds",
			Help:      "Time to accept a vote, mining included.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
		chainLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "vote_ledger",
			Name:      "chain_length",
			Help:      "Blocks in the hash chain.",
		}),
	}
	mc.registry.MustRegister(mc.submissions, mc.rejected, mc.nonces, mc.sealDuration, mc.chainLength)
	return mc
}

// Registry exposes the collectors for an HTTP handler.
func (mc *MetricsCollector) Registry() *prometheus.Registry {
	return mc.registry
}

// RecordSubmission records an accepted vote. nonce is the winning nonce,
// which equals the number of attempts since the search starts at 1.
func (mc *MetricsCollector) RecordSubmission(duration time.Duration, nonce uint64, chainLength int) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	now := time.Now()
	if mc.submissionCount == 0 {
		mc.submissionStartTime = now.Add(-duration)
	}
	mc.submissionCount++
	mc.submissionEndTime = now
	mc.submissionTotalTime += duration
	mc.noncesTried += nonce

	mc.submissions.Inc()
	mc.nonces.Add(float64(nonce))
	mc.sealDuration.Observe(duration.Seconds())
	mc.chainLength.Set(float64(chainLength))
}

func (mc *MetricsCollector) RecordRejection(reason string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.rejections[reason]++
	mc.rejected.WithLabelValues(reason).Inc()
}

// GetMetrics returns a snapshot of the submission metrics.
func (mc *MetricsCollector) GetMetrics() MetricsResponse {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	rejections := make(map[string]int, len(mc.rejections))
	for k, v := range mc.rejections {
		rejections[k] = v
	}

	return MetricsResponse{
		Submission: OperationMetrics{
			StartTime:      mc.submissionStartTime,
			EndTime:        mc.submissionEndTime,
			Count:          mc.submissionCount,
			ProcessingTime: mc.submissionTotalTime.Milliseconds(),
			NoncesTried:    mc.noncesTried,
			Rejections:     rejections,
		},
	}
}

// Reset clears the summary snapshot. Prometheus counters are monotonic and
// keep their values.
func (mc *MetricsCollector) Reset() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.submissionStartTime = time.Time{}
	mc.submissionEndTime = time.Time{}
	mc.submissionCount = 0
	mc.submissionTotalTime = 0
	mc.noncesTried = 0
	mc.rejections = make(map[string]int)
}
