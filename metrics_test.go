package shopsession

import (
	"sync"
	"testing"
	"time"
)

func TestMetricsDisabledIsNoOp(t *testing.T) {
	m := NewMetrics(MetricsConfig{})

	m.Inc(MetricLoginSuccess)
	m.Observe(MetricRefreshLatency, 10*time.Millisecond)

	if got := m.Value(MetricLoginSuccess); got != 0 {
		t.Fatalf("disabled counter = %d", got)
	}
	snap := m.Snapshot()
	if len(snap.Counters) != 0 || len(snap.Histograms) != 0 {
		t.Fatalf("disabled snapshot = %+v", snap)
	}
}

func TestMetricsNilReceiverIsSafe(t *testing.T) {
	var m *Metrics
	m.Inc(MetricLoginSuccess)
	m.Observe(MetricRefreshLatency, time.Millisecond)
	if got := m.Value(MetricLoginSuccess); got != 0 {
		t.Fatalf("nil receiver value = %d", got)
	}
	_ = m.Snapshot()
}

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	m.Inc(MetricLoginSuccess)
	m.Inc(MetricLoginSuccess)
	m.Inc(MetricLogout)

	if got := m.Value(MetricLoginSuccess); got != 2 {
		t.Fatalf("login success = %d", got)
	}
	if got := m.Value(MetricLogout); got != 1 {
		t.Fatalf("logout = %d", got)
	}

	snap := m.Snapshot()
	if snap.Counters[MetricLoginSuccess] != 2 {
		t.Fatalf("snapshot = %+v", snap.Counters)
	}
	if _, ok := snap.Counters[MetricLoginFailure]; ok {
		t.Fatal("zero counter leaked into snapshot")
	}
}

func TestMetricsHistogramBuckets(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})

	m.Observe(MetricRefreshLatency, 3*time.Millisecond)   // bucket 0
	m.Observe(MetricRefreshLatency, 30*time.Millisecond)  // bucket 3
	m.Observe(MetricRefreshLatency, 400*time.Millisecond) // bucket 6
	m.Observe(MetricRefreshLatency, 5*time.Second)        // +Inf

	buckets := m.Snapshot().Histograms[MetricRefreshLatency]
	if len(buckets) != histBucketCount {
		t.Fatalf("bucket count = %d", len(buckets))
	}
	want := []uint64{1, 0, 0, 1, 0, 0, 1, 1}
	for i, w := range want {
		if buckets[i] != w {
			t.Fatalf("bucket %d = %d, want %d (all: %v)", i, buckets[i], w, buckets)
		}
	}
}

func TestMetricsObserveIgnoresCounters(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})

	m.Observe(MetricLoginSuccess, time.Millisecond)
	if got := m.Value(MetricLoginSuccess); got != 0 {
		t.Fatalf("observe leaked into counter: %d", got)
	}
}

func TestMetricsConcurrentAccess(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				m.Inc(MetricRefreshSuccess)
				m.Observe(MetricRefreshLatency, time.Millisecond)
			}
		}()
	}
	wg.Wait()

	if got := m.Value(MetricRefreshSuccess); got != 8000 {
		t.Fatalf("refresh success = %d, want 8000", got)
	}
}
