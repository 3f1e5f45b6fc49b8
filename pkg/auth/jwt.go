package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// The backend signs its tokens; this process never holds the key. Claims are
// read unverified and only used to bound how long a session is kept.

// ExpiresAt returns the exp claim of a bearer token, if it has one.
func ExpiresAt(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// SessionTTL is the lifetime to give stored session data: the time left on
// the token when it carries an expiry, otherwise fallback. An expired token
// yields zero.
func SessionTTL(token string, fallback time.Duration, now time.Time) time.Duration {
	exp, ok := ExpiresAt(token)
	if !ok {
		return fallback
	}
	ttl := exp.Sub(now)
	if ttl <= 0 {
		return 0
	}
	if fallback > 0 && ttl > fallback {
		return fallback
	}
	return ttl
}
