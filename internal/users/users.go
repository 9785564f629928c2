// Package users holds the Profile model shared by the auth, profile and admin
// modules. A Profile is the locally owned record for an identity provider
// principal and carries the role and status used for authorization.
package users

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the access level of a profile.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// ParseRole converts s to a Role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.TrimSpace(s))
	return r, r.Valid()
}

// Status gates every protected request regardless of role.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Profile is one row of the users table.
type Profile struct {
	ID        uuid.UUID
	Email     string
	FullName  string
	Role      Role
	Status    Status
	LastLogin *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive reports whether the account may use protected routes.
func (p Profile) IsActive() bool {
	return p.Status == StatusActive
}

// ProfileUpdate lists the self-service fields. Nil means unchanged; no other
// column can be reached through it.
type ProfileUpdate struct {
	FullName *string
	Email    *string
}

// IsEmpty reports whether the update changes nothing.
func (u ProfileUpdate) IsEmpty() bool {
	return u.FullName == nil && u.Email == nil
}
