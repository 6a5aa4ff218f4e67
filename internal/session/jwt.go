package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpired reports whether the access token's embedded expiry claim has
// passed. The signature is not verified; only the payload's exp claim is
// read and compared at millisecond precision. Fails closed: a token that
// cannot be decoded, or that carries no expiry, is expired.
func TokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}

	return exp.UnixMilli() < time.Now().UnixMilli()
}
