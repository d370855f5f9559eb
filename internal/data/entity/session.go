package entity

import (
	"time"

	"github.com/google/uuid"
)

type SessionMethod string

const (
	SessionMethodIdentity SessionMethod = "identity"
	SessionMethodCode     SessionMethod = "code"
)

// Session is a bearer token issued after login. OwnerID is the user id for
// identity logins and the signage id for code logins.
type Session struct {
	BaseSimple
	OwnerID    uuid.UUID     `db:"owner_id"`
	OwnerLabel string        `db:"owner_label"`
	Method     SessionMethod `db:"method"`
	Token      uuid.UUID     `db:"token"`
	UserAgent  *string       `db:"user_agent"`
	IPAddress  *string       `db:"ip_address"`
	ExpiresAt  time.Time     `db:"expires_at"`
	RevokedAt  *time.Time    `db:"revoked_at"`
}

func (s Session) IsValid(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
