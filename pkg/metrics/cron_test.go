package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestCronJobMetricsCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCronJobMetrics(reg)

	m.IncSuccess("alert-digest")
	m.IncSuccess("alert-digest")
	m.IncFailure("alert-digest")
	m.ObserveDuration("alert-digest", 120*time.Millisecond)

	if got := testutil.ToFloat64(m.success.WithLabelValues("alert-digest")); got != 2 {
		t.Fatalf("success count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.failure.WithLabelValues("alert-digest")); got != 1 {
		t.Fatalf("failure count = %v, want 1", got)
	}
}

func TestObserveDurationRecordsHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCronJobMetrics(reg)

	m.ObserveDuration("alert-sweep", 250*time.Millisecond)
	m.ObserveDuration("alert-sweep", 750*time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var hist *dto.Histogram
	for _, family := range families {
		if family.GetName() == "job_duration_seconds" {
			hist = family.GetMetric()[0].GetHistogram()
		}
	}
	if hist == nil {
		t.Fatal("job_duration_seconds not registered")
	}
	if hist.GetSampleCount() != 2 {
		t.Fatalf("sample count = %d, want 2", hist.GetSampleCount())
	}
	if sum := hist.GetSampleSum(); sum < 0.99 || sum > 1.01 {
		t.Fatalf("sample sum = %v, want ~1.0", sum)
	}
}

func TestNilRegistererIsSafe(t *testing.T) {
	m := NewCronJobMetrics(nil)
	m.IncSuccess("noop")
	m.IncFailure("noop")
	m.ObserveDuration("", time.Second)
}
