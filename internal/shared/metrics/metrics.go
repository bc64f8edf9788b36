package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	syncStartedTotal   atomic.Uint64
	syncCompletedTotal atomic.Uint64
	syncFailedTotal    atomic.Uint64
	syncRejectedTotal  atomic.Uint64

	recommendationsServedTotal atomic.Uint64
	eventsTrackedTotal         atomic.Uint64

	syncDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncSyncStarted increments the started counter.
func IncSyncStarted() {
	syncStartedTotal.Add(1)
}

// IncSyncCompleted increments the completed counter.
func IncSyncCompleted() {
	syncCompletedTotal.Add(1)
}

// IncSyncFailed increments the failed counter.
func IncSyncFailed() {
	syncFailedTotal.Add(1)
}

// IncSyncRejected increments the rejected counter (single-flight refusals).
func IncSyncRejected() {
	syncRejectedTotal.Add(1)
}

// IncRecommendationsServed increments the served counter.
func IncRecommendationsServed() {
	recommendationsServedTotal.Add(1)
}

// IncEventsTracked increments the tracked-events counter.
func IncEventsTracked() {
	eventsTrackedTotal.Add(1)
}

// ObserveSyncDurationMs records a full-sync duration in milliseconds.
func ObserveSyncDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	syncDuration.Observe(value)
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
	writeCounter(&buf, "sync_started_total", "Total full syncs started", syncStartedTotal.Load())
	writeCounter(&buf, "sync_completed_total", "Total full syncs completed", syncCompletedTotal.Load())
	writeCounter(&buf, "sync_failed_total", "Total full syncs failed", syncFailedTotal.Load())
	writeCounter(&buf, "sync_rejected_total", "Total syncs rejected while one was in progress", syncRejectedTotal.Load())
	writeCounter(&buf, "recommendations_served_total", "Total recommendation requests served", recommendationsServedTotal.Load())
	writeCounter(&buf, "events_tracked_total", "Total widget events tracked", eventsTrackedTotal.Load())
	writeHistogram(&buf, "sync_duration_ms", "Full sync duration in milliseconds", syncDuration.Snapshot())
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
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
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

// NowMillis returns current time in milliseconds.
func NowMillis() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Millisecond)
}
