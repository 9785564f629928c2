package repository

import (
	"context"
	"time"

	"user_management_backend/internal/users"

	"github.com/google/uuid"
)

// ProfileRepository is the Profile Store Adapter. Implementations report a
// missing row as an apperr of kind NotFound and a unique violation as kind
// Conflict.
type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (users.Profile, error)
	Count(ctx context.Context) (int, error)
	// List returns a window of profiles ordered newest first.
	List(ctx context.Context, offset, limit int) ([]users.Profile, error)
	Update(ctx context.Context, id uuid.UUID, update users.ProfileUpdate) (users.Profile, error)
	SetStatus(ctx context.Context, id uuid.UUID, status users.Status) (users.Profile, error)
	SetRole(ctx context.Context, id uuid.UUID, role users.Role) (users.Profile, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// Ensure Repository implements ProfileRepository
var _ ProfileRepository = (*Repository)(nil)
