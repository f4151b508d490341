// Package session defines the durable session snapshot, its versioned
// envelope encoding, the load-time migration/integrity check, and the storage
// backends it is persisted to.
//
// The root package owns the live session; this package owns what survives a
// process restart. Decode and Migrate never trust stored flags: a snapshot
// claiming authentication without a usable token is corrected to anonymous
// before it ever reaches the live session.
package session
