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
	shareDispatchTotal      atomic.Uint64
	notificationSentTotal   atomic.Uint64
	notificationFailedTotal atomic.Uint64

	notificationDelay = newHistogram([]float64{0, 1000, 60000, 600000, 3600000, 86400000, 604800000})
)

// IncShareDispatch increments the share dispatch counter.
func IncShareDispatch() {
	shareDispatchTotal.Add(1)
}

// IncNotificationSent increments the sent counter.
func IncNotificationSent() {
	notificationSentTotal.Add(1)
}

// IncNotificationFailed increments the failed counter.
func IncNotificationFailed() {
	notificationFailedTotal.Add(1)
}

// ObserveNotificationDelayMs records the scheduling delay of a dispatched job.
func ObserveNotificationDelayMs(value float64) {
	if value < 0 {
		value = 0
	}
	notificationDelay.Observe(value)
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
	writeCounter(&buf, "share_dispatch_total", "Total share dispatch calls", shareDispatchTotal.Load())
	writeCounter(&buf, "notification_sent_total", "Total notifications delivered", notificationSentTotal.Load())
	writeCounter(&buf, "notification_failed_total", "Total notification deliveries that failed", notificationFailedTotal.Load())
	writeHistogram(&buf, "notification_delay_ms", "Scheduling delay of notification jobs in milliseconds", notificationDelay.Snapshot())
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
