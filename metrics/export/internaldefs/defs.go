package internaldefs

import (
	shopsession "github.com/babakneza/shopsession"
)

// CounterDef binds a metric ID to its exported name and help text.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   shopsession.MetricID
	Name string
	Help string
}

// HistogramDef binds a histogram metric ID to its exported name and help text.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   shopsession.MetricID
	Name string
	Help string
}

// CounterDefs is the ordered list of exported counter definitions.
var CounterDefs = []CounterDef{
	{ID: shopsession.MetricLoginSuccess, Name: "shopsession_login_success_total", Help: "Successful login attempts."},
	{ID: shopsession.MetricLoginFailure, Name: "shopsession_login_failure_total", Help: "Failed login attempts."},
	{ID: shopsession.MetricRegisterSuccess, Name: "shopsession_register_success_total", Help: "Successful registrations."},
	{ID: shopsession.MetricRegisterFailure, Name: "shopsession_register_failure_total", Help: "Failed registrations."},
	{ID: shopsession.MetricRefreshSuccess, Name: "shopsession_refresh_success_total", Help: "Successful token refreshes."},
	{ID: shopsession.MetricRefreshFailure, Name: "shopsession_refresh_failure_total", Help: "Session-fatal refresh failures."},
	{ID: shopsession.MetricRefreshSkipped, Name: "shopsession_refresh_skipped_total", Help: "Refresh calls gated out because the token was still fresh."},
	{ID: shopsession.MetricRefreshCoalesced, Name: "shopsession_refresh_coalesced_total", Help: "Refresh calls that joined an in-flight refresh."},
	{ID: shopsession.MetricLogout, Name: "shopsession_logout_total", Help: "Logout operations."},
	{ID: shopsession.MetricHydrateSuccess, Name: "shopsession_hydrate_success_total", Help: "Hydrations that reconstructed a stored snapshot."},
	{ID: shopsession.MetricHydrateEmpty, Name: "shopsession_hydrate_empty_total", Help: "Hydrations that found no stored snapshot."},
	{ID: shopsession.MetricHydrateCorrupt, Name: "shopsession_hydrate_corrupt_total", Help: "Hydrations that discarded an unreadable snapshot."},
	{ID: shopsession.MetricHydrateDowngraded, Name: "shopsession_hydrate_downgraded_total", Help: "Hydrations where migration revoked a stored authenticated flag."},
	{ID: shopsession.MetricReauthRequired, Name: "shopsession_reauth_required_total", Help: "Deduplicated re-authentication incidents."},
	{ID: shopsession.MetricCustomerBackfillFailure, Name: "shopsession_customer_backfill_failure_total", Help: "Non-fatal customer profile backfill failures."},
	{ID: shopsession.MetricProfileUpdateSuccess, Name: "shopsession_profile_update_success_total", Help: "Successful profile updates."},
	{ID: shopsession.MetricProfileUpdateRetry, Name: "shopsession_profile_update_retry_total", Help: "Profile updates that needed the single refresh-and-retry cycle."},
	{ID: shopsession.MetricProfileUpdateFailure, Name: "shopsession_profile_update_failure_total", Help: "Failed profile updates."},
}

// HistogramDefs is the ordered list of exported histogram definitions.
var HistogramDefs = []HistogramDef{
	{ID: shopsession.MetricRefreshLatency, Name: "shopsession_refresh_latency_seconds", Help: "Token refresh round-trip latency histogram."},
}

// HistogramBounds are the rendered le labels, matching
// [shopsession.HistogramBucketBounds] plus the +Inf bucket.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"1",
	"+Inf",
}

// NormalizeBuckets pads or truncates a raw bucket slice to the fixed bucket
// count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to the cumulative form the
// Prometheus exposition format requires.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
