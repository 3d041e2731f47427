package metrics

import (
	"strings"
	"testing"
)

func TestHistogramBucketsAreCumulativeOnce(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	var buf strings.Builder
	snap := h.Snapshot()
	var cumulative uint64
	for i := range snap.buckets {
		cumulative += snap.counts[i]
		buf.WriteString(formatFloat(snap.buckets[i]))
		buf.WriteString("=")
		buf.WriteString(formatFloat(float64(cumulative)))
		buf.WriteString(" ")
	}
	if got := buf.String(); got != "10=1 100=2 " {
		t.Fatalf("unexpected cumulative buckets: %q", got)
	}
	if snap.count != 3 {
		t.Fatalf("expected count 3, got %d", snap.count)
	}
}

func TestRenderIncludesResumeCounters(t *testing.T) {
	IncResumeCreated()
	IncValidationFailed()
	ObservePDFExportDurationMs(120)

	out := Render()
	for _, want := range []string{
		"# TYPE resumes_created_total counter",
		"resume_validation_failed_total",
		"pdf_export_duration_ms_bucket{le=\"250\"}",
		"pdf_export_duration_ms_bucket{le=\"+Inf\"}",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in metrics output:\n%s", want, out)
		}
	}
}
