// Package shopsession manages the client-side authentication session of a
// storefront front-end: token storage, expiration tracking, proactive refresh
// scheduling, rehydration from durable storage, and coordinated retry of
// authenticated calls during checkout.
//
// The package is designed for concurrent front-end workloads: Manager methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// shopsession is the public surface. It exposes [Manager], [Builder],
// [Config], the collaborator interfaces ([AuthAPI], [CustomerAPI],
// [OrderAPI], [PaymentAPI]), and value types (Snapshot, MetricsSnapshot,
// ReauthEvent). Timer management, expiry arithmetic, and event dispatch live
// under internal/ and are never exported. Durable snapshot encoding and
// storage backends live in the session sub-package.
//
// # What this package must NOT do
//
//   - Render UI or own routing; loss of authentication is published as a
//     single deduplicated [ReauthEvent], never as a user-facing prompt.
//   - Implement the auth, customer, order, or payment services; those are
//     externally-owned HTTP APIs reached through the collaborator interfaces.
//   - Block hydration: Initialize always completes, degrading to an empty
//     session on storage or parse failure.
//
// # Failure contract
//
// A failed token refresh is session-fatal and clears all local credentials.
// Customer profile backfill is best-effort and never fails a login. Logout
// clears the local session even when the network call fails.
package shopsession
