package provider

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpiryMargin keeps cached tokens comfortably inside their real
// lifetime so a token never expires mid fan-out.
const tokenExpiryMargin = time.Minute

// TokenTTL bounds how long a bearer token may be cached. The provider's
// tokens are JWTs; when the exp claim parses, the cache lifetime is the
// remaining validity minus a safety margin, capped at max. Opaque tokens
// fall back to max outright. The parse is unverified on purpose: this
// service consumes the token, it does not vouch for it.
func TokenTTL(token string, max time.Duration) time.Duration {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return max
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return max
	}

	remaining := time.Until(exp.Time) - tokenExpiryMargin
	if remaining <= 0 {
		// Token is already at the edge of its lifetime; cache only briefly
		// so the next check re-authenticates soon.
		return 30 * time.Second
	}
	if remaining < max {
		return remaining
	}
	return max
}
