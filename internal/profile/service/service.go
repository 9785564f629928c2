// Package service implements profile self-service: reading the caller's
// profile, updating the allow-listed fields and changing the password.
package service

import (
	"context"
	"errors"

	"user_management_backend/internal/identity"
	"user_management_backend/internal/users"
	"user_management_backend/internal/users/repository"
	"user_management_backend/platform/apperr"
	"user_management_backend/platform/events"
	"user_management_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	msgNoValidFields     = "No valid fields to update"
	msgEmailInUse        = "Email already in use"
	msgIncorrectPassword = "Current password is incorrect"
	msgUserNotFound      = "User not found"
)

// Outcomes reported to the EmailSyncRecorder.
const (
	EmailSyncOK     = "ok"
	EmailSyncFailed = "failed"
)

// EmailSyncRecorder observes email propagation outcomes.
type EmailSyncRecorder interface {
	RecordEmailSync(outcome string)
}

type Service struct {
	profiles repository.ProfileRepository
	provider identity.Provider
	bus      events.Bus
	recorder EmailSyncRecorder
	log      *logger.Logger
}

// New creates the service. bus and recorder may be nil.
func New(profiles repository.ProfileRepository, provider identity.Provider, bus events.Bus, recorder EmailSyncRecorder, log *logger.Logger) *Service {
	return &Service{
		profiles: profiles,
		provider: provider,
		bus:      bus,
		recorder: recorder,
		log:      log,
	}
}

func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (users.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return users.Profile{}, notFoundAsUser(err)
	}
	return profile, nil
}

// UpdateProfile applies full_name and email only. When the email changes it
// is also pushed to the identity provider; that write is not transactional
// with the profile update and a failure is handed to the retry queue.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, update users.ProfileUpdate) (users.Profile, error) {
	if update.IsEmpty() {
		return users.Profile{}, apperr.BadRequest(apperr.CodeNoValidFields, msgNoValidFields)
	}

	var previousEmail string
	if update.Email != nil {
		current, err := s.profiles.GetByID(ctx, id)
		if err != nil {
			return users.Profile{}, notFoundAsUser(err)
		}
		previousEmail = current.Email
	}

	updated, err := s.profiles.Update(ctx, id, update)
	if err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			return users.Profile{}, apperr.Wrap(apperr.KindConflict, apperr.CodeEmailInUse, msgEmailInUse, err)
		}
		return users.Profile{}, notFoundAsUser(err)
	}

	if update.Email != nil && *update.Email != previousEmail {
		s.syncEmail(ctx, id, *update.Email)
	}

	return updated, nil
}

func (s *Service) syncEmail(ctx context.Context, id uuid.UUID, email string) {
	err := s.provider.UpdateUserByID(ctx, id, identity.AdminUserUpdate{Email: &email})
	if err == nil {
		s.record(EmailSyncOK)
		return
	}

	s.record(EmailSyncFailed)
	s.log.WithContext(ctx).BestEffortFailed("identity email sync", err)
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, users.EmailSyncFailed{
		BaseEvent: events.NewBaseEvent(),
		UserID:    id,
		Email:     email,
		Reason:    err.Error(),
	})
}

// UpdatePassword verifies currentPassword by signing in again, then sets
// newPassword through the provider's privileged update.
func (s *Service) UpdatePassword(ctx context.Context, id uuid.UUID, currentPassword, newPassword string) error {
	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return notFoundAsUser(err)
	}

	if _, err := s.provider.SignInWithPassword(ctx, profile.Email, currentPassword); err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			s.log.WithContext(ctx).AuthEvent("password_change", profile.Email, false, "incorrect current password")
			return apperr.Wrap(apperr.KindUnauthorized, apperr.CodeIncorrectPassword, msgIncorrectPassword, err)
		}
		return apperr.Internal("password verification failed", err).WithOp("profile.UpdatePassword")
	}

	if err := s.provider.UpdateUserByID(ctx, id, identity.AdminUserUpdate{Password: &newPassword}); err != nil {
		return apperr.Internal("password update failed", err).WithOp("profile.UpdatePassword")
	}

	s.log.WithContext(ctx).AuthEvent("password_change", profile.Email, true, "")
	return nil
}

func (s *Service) record(outcome string) {
	if s.recorder != nil {
		s.recorder.RecordEmailSync(outcome)
	}
}

func notFoundAsUser(err error) error {
	if apperr.Is(err, apperr.KindNotFound) {
		return apperr.Wrap(apperr.KindNotFound, apperr.CodeNotFound, msgUserNotFound, err)
	}
	return err
}
