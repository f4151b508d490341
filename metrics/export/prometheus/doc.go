// Package prometheus renders session metrics for Prometheus scraping.
//
// [NewExporter] accepts a [shopsession.Manager] and exposes an [http.Handler]
// that renders all counters and histograms in Prometheus text exposition
// format. Counter names are prefixed shopsession_*_total; the single
// histogram is shopsession_refresh_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry: callers mount the Handler.
//   - Mutate manager state.
package prometheus
