// Package internal contains helper utilities that are intentionally private
// to shopsession.
//
// # Sub-packages
//
//   - events — async session event dispatch (Dispatcher + Sink implementations)
//   - scheduler — the single-slot proactive refresh timer
//   - tokenclock — pure expiry math over epoch-millisecond timestamps
//
// # What this package must NOT do
//
//   - Export types that appear in the public shopsession API.
//   - Be imported by any package outside the shopsession module.
package internal
