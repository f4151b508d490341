// Package tokenclock provides pure expiry arithmetic for bearer tokens.
//
// Timestamps are epoch milliseconds, matching the persisted snapshot layout.
// A zero timestamp means "expiry unknown" and is always treated as expired so
// that callers fail safe toward re-authentication.
//
// All functions take the current time as a parameter and perform no I/O.
package tokenclock

import "time"

// ComputeExpiry returns the absolute expiry for a token issued at now with
// the given lifetime, as epoch milliseconds.
func ComputeExpiry(now time.Time, ttl time.Duration) int64 {
	return now.Add(ttl).UnixMilli()
}

// IsExpired reports whether the token is expired or within the refresh
// buffer. A zero expiresAt is always expired.
func IsExpired(now time.Time, expiresAt int64, buffer time.Duration) bool {
	if expiresAt == 0 {
		return true
	}
	return expiresAt-now.UnixMilli() <= buffer.Milliseconds()
}

// Remaining returns the time left until expiry, floored at zero. A zero
// expiresAt yields zero.
func Remaining(now time.Time, expiresAt int64) time.Duration {
	if expiresAt == 0 {
		return 0
	}
	ms := expiresAt - now.UnixMilli()
	if ms <= 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

// ExpiryTime converts an epoch-millisecond expiry to a time.Time. The zero
// value maps to the zero time.
func ExpiryTime(expiresAt int64) time.Time {
	if expiresAt == 0 {
		return time.Time{}
	}
	return time.UnixMilli(expiresAt)
}
