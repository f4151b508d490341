// Package events provides session lifecycle event dispatching for shopsession
// observability.
//
// # Design
//
// Events are forwarded asynchronously from a buffered channel to a single
// [Sink] by one dispatcher goroutine. Emit never blocks the session path when
// DropIfFull is set; dropped events are counted, not queued.
//
// # Architecture boundaries
//
// This package owns event transport only. Event vocabulary (login_success,
// refresh_failure, ...) and emission sites live in the root package.
//
// # What this package must NOT do
//
//   - Perform network calls.
//   - Import shopsession or any sibling package.
//   - Interpret event payloads.
package events
