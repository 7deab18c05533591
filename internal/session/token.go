package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry extracts the exp claim from a bearer token without
// verifying its signature — the backend remains the authority on
// validity, this is only a local pre-check so the CLI can tell the
// user a session is stale before making a call. ok is false when the
// token doesn't parse or carries no expiry.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Expired reports whether the token carries an exp claim in the past.
// A token without a readable expiry is not considered expired.
func Expired(token string) bool {
	exp, ok := TokenExpiry(token)
	return ok && exp.Before(time.Now())
}
