package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Expired reports whether a JWT access token carries an exp claim that is before now.
// The signature is not verified; only the server can do that. Opaque tokens and JWTs
// without exp never expire locally.
func Expired(rawToken string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(rawToken, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}
