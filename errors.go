package shopsession

import "errors"

var (
	// ErrNoToken is returned when a login, register, or refresh response
	// carries no access token.
	ErrNoToken = errors.New("auth response missing access token")
	// ErrAuthFailed marks an authentication failure (401-equivalent) from a
	// collaborator API. Retry policies detect it with errors.Is.
	ErrAuthFailed = errors.New("authentication failed")
	// ErrNotAuthenticated is returned by operations that require an
	// authenticated session.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrSessionExpired is returned when a token refresh fails and the
	// session has been cleared.
	ErrSessionExpired = errors.New("session expired")
	// ErrNoCustomerProfile is returned when an operation needs a linked
	// customer profile and none exists.
	ErrNoCustomerProfile = errors.New("no customer profile linked to session")
	// ErrInvalidInput is returned when credential or profile input fails
	// validation before any network call is made.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUpstreamUnavailable is returned when a collaborator API cannot be
	// reached or answers with a server error after retries.
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
)
