package session

// User is the identity record attached to an authenticated session. It
// mirrors the auth service's user shape and is persisted as part of the
// snapshot.
type User struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	FirstName     string `json:"first_name,omitempty"`
	LastName      string `json:"last_name,omitempty"`
	EmailVerified bool   `json:"email_verified"`
}

// Session is the durable subset of the in-memory session. Transient fields
// (loading, error, redirect target) never appear here.
//
// TokenExpiresAt is epoch milliseconds; zero means the expiry is unknown.
type Session struct {
	User            *User  `json:"user,omitempty"`
	AccessToken     string `json:"access_token,omitempty"`
	RefreshToken    string `json:"refresh_token,omitempty"`
	IsAuthenticated bool   `json:"is_authenticated"`
	RememberMe      bool   `json:"remember_me"`
	CustomerID      string `json:"customer_id,omitempty"`
	TokenExpiresAt  int64  `json:"token_expires_at,omitempty"`
}

// Empty reports whether the session carries no credentials and no identity.
func (s Session) Empty() bool {
	return s.User == nil && s.AccessToken == "" && s.RefreshToken == "" && !s.IsAuthenticated
}
