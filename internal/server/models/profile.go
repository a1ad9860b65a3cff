package models

import "time"

// Profile is the role-binding row for a user: at most one per user id,
// created lazily on first authenticated access. The role is immutable from
// the server's perspective once written.
type Profile struct {
	ID        string
	Role      Role
	FullName  string
	CreatedAt time.Time
}
