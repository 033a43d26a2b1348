package utils

import (
	"errors"
	"fmt"
	"time"

	"cabin-booking/internal/booking"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessClaims are carried by every bearer token. ID (jti) is the session
// token stored in the sessions table.
type AccessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// NewAccessToken signs an HS256 token for the session.
func NewAccessToken(secret string, userID, sessionID uuid.UUID, role string, expiresAt time.Time) (string, error) {
	now := time.Now().UTC()
	claims := AccessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ID:        sessionID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseAccessToken verifies signature and expiry. Expired tokens yield
// booking.ErrTokenExpired, everything else booking.ErrUnauthenticated.
func ParseAccessToken(secret, raw string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, booking.ErrTokenExpired
	case err != nil:
		return nil, fmt.Errorf("%w: %v", booking.ErrUnauthenticated, err)
	}

	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, fmt.Errorf("%w: bad subject", booking.ErrUnauthenticated)
	}
	if _, err := uuid.Parse(claims.ID); err != nil {
		return nil, fmt.Errorf("%w: bad token id", booking.ErrUnauthenticated)
	}

	return claims, nil
}
