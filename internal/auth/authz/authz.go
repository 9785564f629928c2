package authz

import (
	"context"
	"errors"

	"user_management_backend/internal/identity"
	"user_management_backend/internal/users"
	"user_management_backend/platform/apperr"
	"user_management_backend/platform/httpkit"
	"user_management_backend/platform/logger"

	"github.com/google/uuid"
)

// AuthContext is attached to the request once the pipeline succeeds.
type AuthContext struct {
	ID      uuid.UUID
	Email   string
	Role    users.Role
	Status  users.Status
	Profile users.Profile
	Token   string
}

// UserID implements httpkit.Identity.
func (a *AuthContext) UserID() uuid.UUID { return a.ID }

// UserEmail implements httpkit.Identity.
func (a *AuthContext) UserEmail() string { return a.Email }

// RoleName implements httpkit.Identity.
func (a *AuthContext) RoleName() string { return string(a.Role) }

func (a *AuthContext) principal() identity.Principal {
	return identity.Principal{ID: a.ID, Email: a.Email}
}

var _ httpkit.Identity = (*AuthContext)(nil)

// ProfileReader is the part of the profile store the pipeline needs.
type ProfileReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (users.Profile, error)
}

// Recorder receives one observation per rejection.
type Recorder interface {
	RecordAuthRejection(code string)
}

// Pipeline resolves requests to an AuthContext. It holds no per-request
// state and never caches results.
type Pipeline struct {
	provider identity.Provider
	profiles ProfileReader
	recorder Recorder
	log      *logger.Logger
}

// NewPipeline creates a pipeline. recorder may be nil.
func NewPipeline(provider identity.Provider, profiles ProfileReader, recorder Recorder, log *logger.Logger) *Pipeline {
	return &Pipeline{
		provider: provider,
		profiles: profiles,
		recorder: recorder,
		log:      log,
	}
}

// Authorize runs the pipeline for an Authorization header value. The first
// failing step ends the run; a provider or store failure is never retried.
func (p *Pipeline) Authorize(ctx context.Context, authHeader string) (*AuthContext, error) {
	token, ok := httpkit.ExtractBearerToken(authHeader)
	if !ok {
		return nil, apperr.Unauthorized(apperr.CodeNoToken, "No token provided")
	}

	principal, err := p.provider.VerifyToken(ctx, token)
	if err != nil {
		if !errors.Is(err, identity.ErrInvalidToken) {
			p.log.WithContext(ctx).Warn("token verification failed", "error", err)
		}
		return nil, apperr.Wrap(apperr.KindUnauthorized, apperr.CodeInvalidToken, "Invalid or expired token", err)
	}

	var profile *users.Profile
	found, err := p.profiles.GetByID(ctx, principal.ID)
	switch {
	case err == nil:
		profile = &found
	case apperr.Is(err, apperr.KindNotFound):
		// Decide reports the missing profile.
	default:
		return nil, err
	}

	if decision := Decide(&principal, profile, nil); !decision.Allowed {
		return nil, decision.Err(nil)
	}

	return &AuthContext{
		ID:      principal.ID,
		Email:   principal.Email,
		Role:    profile.Role,
		Status:  profile.Status,
		Profile: *profile,
		Token:   token,
	}, nil
}

func (p *Pipeline) reject(code apperr.Code) {
	if p.recorder != nil {
		p.recorder.RecordAuthRejection(string(code))
	}
}
