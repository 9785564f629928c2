package authz

import (
	"testing"

	"user_management_backend/internal/identity"
	"user_management_backend/internal/users"
	"user_management_backend/platform/apperr"

	"github.com/google/uuid"
)

func TestDecide(t *testing.T) {
	id := uuid.New()
	principal := &identity.Principal{ID: id, Email: "a@x.com"}
	profile := func(role users.Role, status users.Status) *users.Profile {
		return &users.Profile{ID: id, Email: "a@x.com", Role: role, Status: status}
	}

	tests := []struct {
		name      string
		principal *identity.Principal
		profile   *users.Profile
		required  RoleSet
		want      Decision
	}{
		{name: "no principal", principal: nil, profile: profile(users.RoleAdmin, users.StatusActive), required: AdminOnly, want: Deny(apperr.CodeAuthRequired)},
		{name: "no profile", principal: principal, profile: nil, want: Deny(apperr.CodeProfileNotFound)},
		{name: "profile of someone else", principal: principal, profile: &users.Profile{ID: uuid.New(), Status: users.StatusActive}, want: Deny(apperr.CodeProfileNotFound)},
		{name: "inactive beats role", principal: principal, profile: profile(users.RoleAdmin, users.StatusInactive), required: AdminOnly, want: Deny(apperr.CodeInactiveAccount)},
		{name: "active without role requirement", principal: principal, profile: profile(users.RoleUser, users.StatusActive), want: Allow},
		{name: "user on admin route", principal: principal, profile: profile(users.RoleUser, users.StatusActive), required: AdminOnly, want: Deny(apperr.CodeForbiddenRole)},
		{name: "admin on admin route", principal: principal, profile: profile(users.RoleAdmin, users.StatusActive), required: AdminOnly, want: Allow},
		{name: "admin on user route", principal: principal, profile: profile(users.RoleAdmin, users.StatusActive), required: AnyUser, want: Allow},
		{name: "user on user route", principal: principal, profile: profile(users.RoleUser, users.StatusActive), required: AnyUser, want: Allow},
		{name: "unknown role on user route", principal: principal, profile: profile(users.Role("guest"), users.StatusActive), required: AnyUser, want: Deny(apperr.CodeForbiddenRole)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.principal, tt.profile, tt.required); got != tt.want {
				t.Fatalf("Decide() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecisionErrStatus(t *testing.T) {
	tests := []struct {
		code     apperr.Code
		required RoleSet
		status   int
		message  string
	}{
		{code: apperr.CodeAuthRequired, status: 401, message: "Authentication required"},
		{code: apperr.CodeProfileNotFound, status: 404, message: "User profile not found"},
		{code: apperr.CodeInactiveAccount, status: 403, message: "Account is inactive"},
		{code: apperr.CodeForbiddenRole, required: AdminOnly, status: 403, message: "Admin access required"},
		{code: apperr.CodeForbiddenRole, required: AnyUser, status: 403, message: "User access required"},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err, ok := apperr.As(Deny(tt.code).Err(tt.required))
			if !ok {
				t.Fatal("expected an apperr")
			}
			if err.HTTPStatus() != tt.status || err.Message != tt.message || err.Code != tt.code {
				t.Fatalf("unexpected error: status=%d code=%s message=%q", err.HTTPStatus(), err.Code, err.Message)
			}
		})
	}

	if Allow.Err(AdminOnly) != nil {
		t.Fatal("allow must not produce an error")
	}
}
