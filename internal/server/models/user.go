// Package models defines the persisted row types of the portal server.
package models

import "time"

// User is a credential row. RoleHint carries the role chosen on the signup
// form; it is only a hint, the authoritative role lives in the profile row
// once provisioned. Empty RoleHint means no choice was recorded.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	RoleHint     Role
	CreatedAt    time.Time
}

// Identity is the resolved current user as seen by the access-control
// layer: the stable user id plus the signup-time role hint, if any.
type Identity struct {
	UserID   string
	RoleHint Role
}
