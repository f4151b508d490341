package shopsession

import (
	"sync/atomic"
	"time"
)

// MetricID identifies a specific counter or histogram bucket in the
// in-process metrics system.
type MetricID uint16

const (
	// MetricLoginSuccess counts successful logins.
	MetricLoginSuccess MetricID = iota
	// MetricLoginFailure counts failed logins.
	MetricLoginFailure
	// MetricRegisterSuccess counts successful registrations.
	MetricRegisterSuccess
	// MetricRegisterFailure counts failed registrations.
	MetricRegisterFailure
	// MetricRefreshSuccess counts successful token refreshes.
	MetricRefreshSuccess
	// MetricRefreshFailure counts session-fatal refresh failures.
	MetricRefreshFailure
	// MetricRefreshSkipped counts refresh calls gated out because the token
	// was not yet within the buffer.
	MetricRefreshSkipped
	// MetricRefreshCoalesced counts refresh calls that joined an in-flight
	// refresh instead of issuing their own network call.
	MetricRefreshCoalesced
	// MetricLogout counts logouts.
	MetricLogout
	// MetricHydrateSuccess counts hydrations that reconstructed a stored
	// snapshot.
	MetricHydrateSuccess
	// MetricHydrateEmpty counts hydrations that found no stored snapshot.
	MetricHydrateEmpty
	// MetricHydrateCorrupt counts hydrations that discarded an unreadable
	// snapshot.
	MetricHydrateCorrupt
	// MetricHydrateDowngraded counts hydrations where migration revoked a
	// stored is_authenticated flag.
	MetricHydrateDowngraded
	// MetricReauthRequired counts deduplicated re-authentication incidents.
	MetricReauthRequired
	// MetricCustomerBackfillFailure counts non-fatal customer profile
	// fetch/create failures.
	MetricCustomerBackfillFailure
	// MetricProfileUpdateSuccess counts successful profile updates.
	MetricProfileUpdateSuccess
	// MetricProfileUpdateRetry counts profile updates that needed the single
	// forced refresh-and-retry cycle.
	MetricProfileUpdateRetry
	// MetricProfileUpdateFailure counts failed profile updates.
	MetricProfileUpdateFailure
	// MetricRefreshLatency is the refresh round-trip latency histogram.
	MetricRefreshLatency

	metricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

// HistogramBucketBounds are the upper bounds of the latency histogram
// buckets; the last bucket is +Inf.
var HistogramBucketBounds = [histBucketCount - 1]time.Duration{
	5 * time.Millisecond,
	10 * time.Millisecond,
	25 * time.Millisecond,
	50 * time.Millisecond,
	100 * time.Millisecond,
	250 * time.Millisecond,
	time.Second,
}

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics holds atomic counters and optional latency histograms. All
// operations are no-ops when disabled.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot is a point-in-time deep copy of all metrics.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// NewMetrics creates a new [Metrics] instance configured by the given
// [MetricsConfig].
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

// Enabled reports whether metrics collection is active.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Inc increments the counter identified by id.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records a latency observation for id. Only histogram metrics
// accept observations.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enableLatency || id != MetricRefreshLatency {
		return
	}
	b := bucketIndex(d)
	atomic.AddUint64(&m.histograms[id].buckets[b], 1)
}

// Value returns the current value of the counter identified by id.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot returns a deep copy of all non-zero counters and histograms.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		Counters:   map[MetricID]uint64{},
		Histograms: map[MetricID][]uint64{},
	}
	if m == nil || !m.enabled {
		return snap
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		if v := atomic.LoadUint64(&m.counters[id].value); v != 0 {
			snap.Counters[id] = v
		}
	}
	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		nonZero := false
		for i := range buckets {
			buckets[i] = atomic.LoadUint64(&m.histograms[MetricRefreshLatency].buckets[i])
			if buckets[i] != 0 {
				nonZero = true
			}
		}
		if nonZero {
			snap.Histograms[MetricRefreshLatency] = buckets
		}
	}
	return snap
}

func bucketIndex(d time.Duration) int {
	for i, bound := range HistogramBucketBounds {
		if d <= bound {
			return i
		}
	}
	return histBucketCount - 1
}
