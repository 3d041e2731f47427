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
	resumesCreatedTotal   atomic.Uint64
	resumesUpdatedTotal   atomic.Uint64
	resumesDeletedTotal   atomic.Uint64
	validationFailedTotal atomic.Uint64
	snapshotWritesTotal   atomic.Uint64

	pdfExportDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000})
)

// IncResumeCreated increments the created counter.
func IncResumeCreated() {
	resumesCreatedTotal.Add(1)
}

// IncResumeUpdated increments the updated counter.
func IncResumeUpdated() {
	resumesUpdatedTotal.Add(1)
}

// IncResumeDeleted increments the deleted counter.
func IncResumeDeleted() {
	resumesDeletedTotal.Add(1)
}

// IncValidationFailed counts request bodies rejected by validation.
func IncValidationFailed() {
	validationFailedTotal.Add(1)
}

// IncSnapshotWrite counts local working-copy snapshot writes.
func IncSnapshotWrite() {
	snapshotWritesTotal.Add(1)
}

// ObservePDFExportDurationMs records a PDF export duration in milliseconds.
func ObservePDFExportDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	pdfExportDuration.Observe(value)
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
	writeCounter(&buf, "resumes_created_total", "Total resumes created", resumesCreatedTotal.Load())
	writeCounter(&buf, "resumes_updated_total", "Total resumes updated", resumesUpdatedTotal.Load())
	writeCounter(&buf, "resumes_deleted_total", "Total resumes deleted", resumesDeletedTotal.Load())
	writeCounter(&buf, "resume_validation_failed_total", "Total request bodies rejected by validation", validationFailedTotal.Load())
	writeCounter(&buf, "resume_snapshot_writes_total", "Total local snapshot writes", snapshotWritesTotal.Load())
	writeHistogram(&buf, "pdf_export_duration_ms", "PDF export duration in milliseconds", pdfExportDuration.Snapshot())
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
