package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session backs an issued bearer token. Token is the JWT "jti" claim, so a
// signed token stops working as soon as its session is revoked.
type Session struct {
	BaseSimple
	UserID    uuid.UUID  `db:"user_id"`
	Token     uuid.UUID  `db:"token"`
	UserAgent *string    `db:"user_agent"`
	IPAddress *string    `db:"ip_address"`
	ExpiresAt time.Time  `db:"expires_at"`
	RevokedAt *time.Time `db:"revoked_at"`
}
