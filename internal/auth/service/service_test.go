package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"user_management_backend/internal/identity"
	"user_management_backend/internal/identity/identitytest"
	"user_management_backend/internal/users"
	"user_management_backend/internal/users/userstest"
	"user_management_backend/platform/apperr"
	"user_management_backend/platform/logger"
)

type pollConfig struct {
	attempts int
	delay    time.Duration
}

func (c pollConfig) GetProfilePollAttempts() int        { return c.attempts }
func (c pollConfig) GetProfilePollDelay() time.Duration { return c.delay }

type fixture struct {
	svc      *Service
	provider *identitytest.Provider
	store    *userstest.Store
	sleeps   []time.Duration
}

func newFixture(t *testing.T, cfg pollConfig) *fixture {
	t.Helper()
	f := &fixture{
		provider: identitytest.NewProvider(),
		store:    userstest.NewStore(),
	}
	f.svc = New(f.provider, f.store, cfg, logger.Discard())
	f.svc.sleep = func(_ context.Context, d time.Duration) error {
		f.sleeps = append(f.sleeps, d)
		return nil
	}
	return f
}

func TestSignupWaitsForProfile(t *testing.T) {
	f := newFixture(t, pollConfig{attempts: 5, delay: 10 * time.Millisecond})

	var created identity.Principal
	f.provider.OnSignUp = func(p identity.Principal, metadata map[string]any) {
		created = p
		if metadata["role"] != "user" {
			t.Errorf("expected role metadata user, got %v", metadata["role"])
		}
		if metadata["full_name"] != "Ann Smith" {
			t.Errorf("expected full_name metadata, got %v", metadata["full_name"])
		}
	}
	// Materialize the row only after the second lookup.
	calls := 0
	f.svc.sleep = func(_ context.Context, d time.Duration) error {
		f.sleeps = append(f.sleeps, d)
		calls++
		if calls == 2 {
			f.store.Put(users.Profile{ID: created.ID, Email: created.Email, FullName: "Ann Smith"})
		}
		return nil
	}

	result, err := f.svc.Signup(context.Background(), "ann@x.com", "secret1", "Ann Smith")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Profile == nil || result.Profile.FullName != "Ann Smith" {
		t.Fatalf("expected materialized profile, got %+v", result.Profile)
	}
	if result.Session == nil || result.Session.AccessToken == "" {
		t.Fatalf("expected session")
	}
	want := []time.Duration{10 * time.Millisecond, 40 * time.Millisecond}
	if len(f.sleeps) != len(want) {
		t.Fatalf("expected %d sleeps, got %v", len(want), f.sleeps)
	}
	for i := range want {
		if f.sleeps[i] != want[i] {
			t.Fatalf("sleep %d: expected %v, got %v", i, want[i], f.sleeps[i])
		}
	}
}

func TestSignupWithoutProfileStillSucceeds(t *testing.T) {
	f := newFixture(t, pollConfig{attempts: 3, delay: time.Millisecond})

	result, err := f.svc.Signup(context.Background(), "bob@x.com", "secret1", "Bob Jones")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Profile != nil {
		t.Fatalf("expected nil profile, got %+v", result.Profile)
	}
	if len(f.sleeps) != 2 {
		t.Fatalf("expected 2 sleeps between 3 attempts, got %d", len(f.sleeps))
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	f := newFixture(t, pollConfig{attempts: 1})
	f.provider.AddAccount("dup@x.com", "secret1")

	_, err := f.svc.Signup(context.Background(), "dup@x.com", "secret1", "Dup User")
	if !apperr.HasCode(err, apperr.CodeDuplicateEmail) {
		t.Fatalf("expected DUPLICATE_EMAIL, got %v", err)
	}
	if appErr, _ := apperr.As(err); appErr.HTTPStatus() != 409 {
		t.Fatalf("expected 409, got %d", appErr.HTTPStatus())
	}
}

func TestLogin(t *testing.T) {
	f := newFixture(t, pollConfig{attempts: 1})
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return now }

	principal := f.provider.AddAccount("ann@x.com", "secret1")
	f.store.Put(users.Profile{ID: principal.ID, Email: principal.Email, FullName: "Ann Smith"})

	result, err := f.svc.Login(context.Background(), "ann@x.com", "secret1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Session.AccessToken == "" {
		t.Fatalf("expected access token")
	}
	if result.Profile == nil {
		t.Fatalf("expected profile")
	}
	if result.Profile.LastLogin == nil || !result.Profile.LastLogin.Equal(now) {
		t.Fatalf("expected last_login %v, got %v", now, result.Profile.LastLogin)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	f := newFixture(t, pollConfig{attempts: 1})
	f.provider.AddAccount("ann@x.com", "secret1")

	for _, tc := range []struct {
		name     string
		email    string
		password string
	}{
		{name: "wrong password", email: "ann@x.com", password: "nope"},
		{name: "unknown email", email: "ghost@x.com", password: "secret1"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Login(context.Background(), tc.email, tc.password)
			if !apperr.HasCode(err, apperr.CodeInvalidCreds) {
				t.Fatalf("expected INVALID_CREDENTIALS, got %v", err)
			}
		})
	}
}

func TestLoginProviderOutageIsInternal(t *testing.T) {
	f := newFixture(t, pollConfig{attempts: 1})
	f.provider.SignInErr = errors.New("connection refused")

	_, err := f.svc.Login(context.Background(), "ann@x.com", "secret1")
	if !apperr.Is(err, apperr.KindInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestLoginWithoutProfileReturnsNilProfile(t *testing.T) {
	f := newFixture(t, pollConfig{attempts: 1})
	f.provider.AddAccount("ann@x.com", "secret1")

	result, err := f.svc.Login(context.Background(), "ann@x.com", "secret1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Profile != nil {
		t.Fatalf("expected nil profile, got %+v", result.Profile)
	}
}

func TestLogoutSwallowsProviderErrors(t *testing.T) {
	f := newFixture(t, pollConfig{attempts: 1})
	f.provider.SignOutErr = errors.New("provider down")

	f.svc.Logout(context.Background(), "tok-1")
	f.svc.Logout(context.Background(), "")

	if len(f.provider.SignedOut) != 1 || f.provider.SignedOut[0] != "tok-1" {
		t.Fatalf("expected a single sign-out for tok-1, got %v", f.provider.SignedOut)
	}
}

func TestGetCurrentUserNotFound(t *testing.T) {
	f := newFixture(t, pollConfig{attempts: 1})
	principal := f.provider.AddAccount("ann@x.com", "secret1")

	_, err := f.svc.GetCurrentUser(context.Background(), principal.ID)
	appErr, ok := apperr.As(err)
	if !ok || appErr.Kind != apperr.KindNotFound || appErr.Message != "User not found" {
		t.Fatalf("expected User not found, got %v", err)
	}
}
