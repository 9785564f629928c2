// Package authz is the request authorization pipeline. It resolves a bearer
// token to a principal, joins it with the local profile, enforces the
// account status gate and then the per-route role gate.
package authz

import (
	"slices"

	"user_management_backend/internal/identity"
	"user_management_backend/internal/users"
	"user_management_backend/platform/apperr"
)

// RoleSet lists the roles a route accepts.
type RoleSet []users.Role

var (
	// AdminOnly admits admins.
	AdminOnly = RoleSet{users.RoleAdmin}
	// AnyUser admits every known role.
	AnyUser = RoleSet{users.RoleUser, users.RoleAdmin}
)

// Contains reports whether r is in the set.
func (s RoleSet) Contains(r users.Role) bool {
	return slices.Contains(s, r)
}

// Decision is the outcome of Decide. Code is empty when Allowed.
type Decision struct {
	Allowed bool
	Code    apperr.Code
}

// Allow is the positive decision.
var Allow = Decision{Allowed: true}

// Deny builds a negative decision.
func Deny(code apperr.Code) Decision {
	return Decision{Code: code}
}

// Decide is the single authorization rule. Checks run in order: a missing
// principal, a missing profile, a non-active status, then role membership.
// An empty required set skips the role check.
func Decide(principal *identity.Principal, profile *users.Profile, required RoleSet) Decision {
	if principal == nil {
		return Deny(apperr.CodeAuthRequired)
	}
	if profile == nil || profile.ID != principal.ID {
		return Deny(apperr.CodeProfileNotFound)
	}
	if !profile.IsActive() {
		return Deny(apperr.CodeInactiveAccount)
	}
	if len(required) > 0 && !required.Contains(profile.Role) {
		return Deny(apperr.CodeForbiddenRole)
	}
	return Allow
}

// Err converts a denial into the typed error rendered to clients.
// Messages depend on the required set only for role denials.
func (d Decision) Err(required RoleSet) error {
	if d.Allowed {
		return nil
	}
	switch d.Code {
	case apperr.CodeAuthRequired:
		return apperr.Unauthorized(apperr.CodeAuthRequired, "Authentication required")
	case apperr.CodeProfileNotFound:
		return apperr.NotFound(apperr.CodeProfileNotFound, "User profile not found")
	case apperr.CodeInactiveAccount:
		return apperr.Forbidden(apperr.CodeInactiveAccount, "Account is inactive")
	case apperr.CodeForbiddenRole:
		if required.Contains(users.RoleUser) {
			return apperr.Forbidden(apperr.CodeForbiddenRole, "User access required")
		}
		return apperr.Forbidden(apperr.CodeForbiddenRole, "Admin access required")
	default:
		return apperr.Forbidden(d.Code, "Access denied")
	}
}
