package session

import (
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/naveenspark/aula/pkg/domain"
)

// TokenExpired reports whether token is a JWT whose exp claim is in the past.
// The signature is not checked. Opaque tokens are never reported as expired.
func TokenExpired(token string, now time.Time) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}

// LoadActive loads the session and drops it when its token has expired.
func LoadActive(s Store, now time.Time) domain.Session {
	sess := s.Load()
	if sess.Active() && TokenExpired(sess.Token, now) {
		s.Clear() //nolint:errcheck // an unreadable store is already logged out
		return domain.Session{}
	}
	return sess
}
