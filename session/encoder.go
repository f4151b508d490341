package session

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/babakneza/shopsession/internal/tokenclock"
)

// SchemaVersion is the current persisted snapshot version. Older versions are
// accepted and pass through Migrate like any other snapshot; the migration
// step is an integrity check, not a per-version rewrite.
const SchemaVersion = 2

// MinTokenLength is the default minimum access token length accepted by
// Migrate. Shorter tokens are treated as corrupt.
const MinTokenLength = 8

// ErrCorruptSnapshot is returned by Decode when the stored value cannot be
// interpreted as a versioned snapshot envelope.
var ErrCorruptSnapshot = errors.New("corrupt session snapshot")

type envelope struct {
	Version int     `json:"version"`
	State   Session `json:"state"`
}

// Encode wraps the session in a versioned envelope and serializes it.
func Encode(s Session) ([]byte, error) {
	return json.Marshal(envelope{
		Version: SchemaVersion,
		State:   s,
	})
}

// Decode unwraps a versioned envelope. It returns the stored session and the
// schema version it was written with.
func Decode(data []byte) (Session, int, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Session{}, 0, errors.Join(ErrCorruptSnapshot, err)
	}
	if env.Version <= 0 {
		return Session{}, 0, ErrCorruptSnapshot
	}
	return env.State, env.Version, nil
}

// Migrate re-validates a loaded snapshot. It runs for every stored version:
// the stored is_authenticated flag is never trusted blindly.
//
// A session stays authenticated only when the access token is at least
// minTokenLen bytes AND one of:
//
//   - the expiry is in the future, or
//   - the expiry is in the past but a refresh token is present, or
//   - the expiry is unknown and a refresh token is present.
//
// Any other combination forces is_authenticated to false. The unknown-expiry
// case deliberately requires a refresh token: an unknown expiry is treated as
// already expired everywhere in this module, so it is only recoverable when
// something exists to refresh with.
func Migrate(s Session, version int, now time.Time, minTokenLen int) Session {
	_ = version

	if minTokenLen <= 0 {
		minTokenLen = MinTokenLength
	}

	if !s.IsAuthenticated && s.AccessToken == "" && s.RefreshToken == "" {
		return s
	}

	if len(s.AccessToken) < minTokenLen {
		s.IsAuthenticated = false
		s.AccessToken = ""
		return s
	}

	switch {
	case s.TokenExpiresAt == 0:
		s.IsAuthenticated = s.RefreshToken != ""
	case !tokenclock.IsExpired(now, s.TokenExpiresAt, 0):
		s.IsAuthenticated = true
	case s.RefreshToken != "":
		// Expired but refreshable; the refresh fires right after hydration.
		s.IsAuthenticated = true
	default:
		s.IsAuthenticated = false
	}

	return s
}
