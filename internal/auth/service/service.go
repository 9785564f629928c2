// Package service implements signup, login, logout and current-user lookup
// on top of the identity provider and the profile store.
package service

import (
	"context"
	"errors"
	"time"

	"user_management_backend/internal/identity"
	"user_management_backend/internal/users"
	"user_management_backend/internal/users/repository"
	"user_management_backend/platform/apperr"
	"user_management_backend/platform/config"
	"user_management_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	msgEmailRegistered    = "Email already registered"
	msgInvalidCredentials = "Invalid email or password"
	msgUserNotFound       = "User not found"
)

// SignupResult is returned by Signup. Session is nil when the provider
// withholds tokens until the email is confirmed. Profile is nil while the
// profile row has not been materialized yet.
type SignupResult struct {
	Principal identity.Principal
	Session   *identity.Session
	Profile   *users.Profile
}

// LoginResult is returned by Login. Profile is nil when no row exists.
type LoginResult struct {
	Principal identity.Principal
	Session   identity.Session
	Profile   *users.Profile
}

type Service struct {
	provider identity.Provider
	profiles repository.ProfileRepository
	cfg      config.SignupConfig
	log      *logger.Logger
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
}

func New(provider identity.Provider, profiles repository.ProfileRepository, cfg config.SignupConfig, log *logger.Logger) *Service {
	return &Service{
		provider: provider,
		profiles: profiles,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// Signup registers the account with role metadata "user" and waits a
// bounded time for the profile row created by the provider-side trigger.
func (s *Service) Signup(ctx context.Context, email, password, fullName string) (SignupResult, error) {
	created, err := s.provider.SignUp(ctx, email, password, map[string]any{
		"full_name": fullName,
		"role":      string(users.RoleUser),
	})
	if err != nil {
		if errors.Is(err, identity.ErrEmailTaken) {
			s.log.WithContext(ctx).AuthEvent("signup", email, false, "email already registered")
			return SignupResult{}, apperr.Wrap(apperr.KindConflict, apperr.CodeDuplicateEmail, msgEmailRegistered, err)
		}
		return SignupResult{}, apperr.Internal("signup failed", err).WithOp("auth.Signup")
	}

	s.log.WithContext(ctx).AuthEvent("signup", email, true, "")

	return SignupResult{
		Principal: created.Principal,
		Session:   created.Session,
		Profile:   s.awaitProfile(ctx, created.Principal.ID),
	}, nil
}

// awaitProfile polls for the profile with quadratic backoff. Absence after
// the last attempt is not an error.
func (s *Service) awaitProfile(ctx context.Context, id uuid.UUID) *users.Profile {
	attempts := s.cfg.GetProfilePollAttempts()
	if attempts < 1 {
		attempts = 1
	}
	delay := s.cfg.GetProfilePollDelay()

	for attempt := 1; attempt <= attempts; attempt++ {
		profile, err := s.profiles.GetByID(ctx, id)
		if err == nil {
			return &profile
		}
		if !apperr.Is(err, apperr.KindNotFound) {
			s.log.WithContext(ctx).BestEffortFailed("signup profile fetch", err)
			return nil
		}
		if attempt == attempts {
			break
		}
		if err := s.sleep(ctx, delay*time.Duration(attempt*attempt)); err != nil {
			return nil
		}
	}

	s.log.WithContext(ctx).Info("profile not yet materialized", "user_id", id.String(), "attempts", attempts)
	return nil
}

// Login verifies credentials, records the login time and loads the profile.
// The status gate is left to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	signedIn, err := s.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			s.log.WithContext(ctx).AuthEvent("login", email, false, "invalid credentials")
			return LoginResult{}, apperr.Wrap(apperr.KindUnauthorized, apperr.CodeInvalidCreds, msgInvalidCredentials, err)
		}
		return LoginResult{}, apperr.Internal("login failed", err).WithOp("auth.Login")
	}

	id := signedIn.Principal.ID
	if err := s.profiles.TouchLastLogin(ctx, id, s.now().UTC()); err != nil {
		s.log.WithContext(ctx).BestEffortFailed("update last_login", err)
	}

	result := LoginResult{Principal: signedIn.Principal, Session: signedIn.Session}
	profile, err := s.profiles.GetByID(ctx, id)
	switch {
	case err == nil:
		result.Profile = &profile
	case apperr.Is(err, apperr.KindNotFound):
		s.log.WithContext(ctx).Warn("login without profile", "user_id", id.String())
	default:
		return LoginResult{}, err
	}

	s.log.WithContext(ctx).AuthEvent("login", email, true, "")
	return result, nil
}

// Logout invalidates the session. Provider failures are logged and swallowed.
func (s *Service) Logout(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := s.provider.SignOut(ctx, token); err != nil {
		s.log.WithContext(ctx).BestEffortFailed("logout", err)
	}
}

// GetCurrentUser returns the caller's profile.
func (s *Service) GetCurrentUser(ctx context.Context, id uuid.UUID) (users.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return users.Profile{}, apperr.Wrap(apperr.KindNotFound, apperr.CodeNotFound, msgUserNotFound, err)
		}
		return users.Profile{}, err
	}
	return profile, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
