// Package guard applies the session layer's cross-cutting request policies
// to outbound HTTP calls made by unrelated storefront features (checkout,
// reviews, order history).
//
// Two policies wrap every authenticated request: a pre-flight opportunistic
// token refresh for state-changing requests, and post-flight detection of
// authentication failures that is coalesced into a single re-authentication
// incident no matter how many concurrent calls observe it.
package guard

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
)

// Session is the slice of the session manager the transport needs.
// *shopsession.Manager satisfies it.
type Session interface {
	RefreshIfNeeded(ctx context.Context) error
	AccessToken() string
}

// Notifier receives authentication-loss signals.
// *shopsession.ReauthNotifier satisfies it.
type Notifier interface {
	Notify(reason string) bool
}

// Transport is an [http.RoundTripper] that injects the session's bearer
// token and applies the pre- and post-flight policies. Wrap it around the
// transport of any client that talks to authenticated endpoints.
type Transport struct {
	// Base is the underlying round tripper; http.DefaultTransport when nil.
	Base http.RoundTripper
	// Session supplies the token and the opportunistic refresh. Required.
	Session Session
	// Notifier receives the deduplicated re-authentication incident on 401
	// responses. Optional.
	Notifier Notifier
	// Logger is silent when unset.
	Logger zerolog.Logger
}

// RoundTrip implements http.RoundTripper.
//
// State-changing requests (anything but GET) trigger an awaited
// RefreshIfNeeded first; its errors are swallowed so a failed opportunistic
// refresh cannot block the request, which surfaces its own auth error if the
// token truly is bad. The token is read from the session after that refresh,
// never before, so the freshest credential is sent.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		if err := t.Session.RefreshIfNeeded(req.Context()); err != nil {
			t.Logger.Debug().Err(err).Msg("pre-flight refresh failed, sending request anyway")
		}
	}

	out := req.Clone(req.Context())
	if token := t.Session.AccessToken(); token != "" {
		out.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := t.base().RoundTrip(out)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && t.Notifier != nil {
		if t.Notifier.Notify("unauthorized response from " + req.URL.Path) {
			t.Logger.Info().Str("path", req.URL.Path).Msg("re-authentication required")
		}
	}
	return resp, nil
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}
