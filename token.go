package shopsession

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var tokenParser = jwt.NewParser(jwt.WithoutClaimsValidation())

// tokenTTL derives the access token lifetime from a token response. The
// expires field wins; when the service omits it and the token happens to be
// a JWT, the registered exp claim is used instead. Returns zero when neither
// source yields a lifetime.
func tokenTTL(now time.Time, resp *TokenResponse) time.Duration {
	if resp.ExpiresIn > 0 {
		return time.Duration(resp.ExpiresIn) * time.Second
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := tokenParser.ParseUnverified(resp.AccessToken, &claims); err != nil {
		return 0
	}
	if claims.ExpiresAt == nil {
		return 0
	}
	ttl := claims.ExpiresAt.Time.Sub(now)
	if ttl <= 0 {
		return 0
	}
	return ttl
}
