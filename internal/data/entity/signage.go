package entity

import "time"

// Signage is a shared call-sign used with the access code. Its ID is the
// owner id stamped on bookings made under it.
type Signage struct {
	BaseSimple
	Label      string    `db:"label"`
	LastUsedAt time.Time `db:"last_used_at"`
}
