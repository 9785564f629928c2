// Package service implements user administration: paginated listing,
// lookup, status transitions and role changes.
package service

import (
	"context"

	"user_management_backend/internal/users"
	"user_management_backend/internal/users/repository"
	"user_management_backend/platform/apperr"
	"user_management_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	msgUserNotFound = "User not found"
	msgInvalidRole  = "Role must be one of [admin, user]"
)

// Page is one window of the user list.
type Page struct {
	Users      []users.Profile
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

type Service struct {
	profiles repository.ProfileRepository
	log      *logger.Logger
}

func New(profiles repository.ProfileRepository, log *logger.Logger) *Service {
	return &Service{profiles: profiles, log: log}
}

// GetAllUsers returns page (1-based) of limit users, newest first, with the
// total count. The count and the window are read concurrently, so they are
// not a consistent snapshot under concurrent writes.
func (s *Service) GetAllUsers(ctx context.Context, page, limit int) (Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}

	var (
		total int
		items []users.Profile
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.profiles.Count(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = s.profiles.List(gctx, (page-1)*limit, limit)
		return err
	})
	if err := g.Wait(); err != nil {
		return Page{}, err
	}

	return Page{
		Users:      items,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	}, nil
}

func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (users.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return users.Profile{}, notFoundAsUser(err)
	}
	return profile, nil
}

// ActivateUser sets status active. Repeating it is a successful no-op.
func (s *Service) ActivateUser(ctx context.Context, id uuid.UUID) (users.Profile, error) {
	return s.setStatus(ctx, id, users.StatusActive)
}

// DeactivateUser sets status inactive. Repeating it is a successful no-op.
func (s *Service) DeactivateUser(ctx context.Context, id uuid.UUID) (users.Profile, error) {
	return s.setStatus(ctx, id, users.StatusInactive)
}

func (s *Service) setStatus(ctx context.Context, id uuid.UUID, status users.Status) (users.Profile, error) {
	profile, err := s.profiles.SetStatus(ctx, id, status)
	if err != nil {
		return users.Profile{}, notFoundAsUser(err)
	}
	s.log.WithContext(ctx).Info("user status changed", "target_id", id.String(), "status", string(status))
	return profile, nil
}

// UpdateUserRole sets the role, which must be admin or user.
func (s *Service) UpdateUserRole(ctx context.Context, id uuid.UUID, role string) (users.Profile, error) {
	parsed, ok := users.ParseRole(role)
	if !ok {
		return users.Profile{}, apperr.BadRequest(apperr.CodeInvalidRole, msgInvalidRole)
	}

	profile, err := s.profiles.SetRole(ctx, id, parsed)
	if err != nil {
		return users.Profile{}, notFoundAsUser(err)
	}
	s.log.WithContext(ctx).Info("user role changed", "target_id", id.String(), "role", string(parsed))
	return profile, nil
}

func notFoundAsUser(err error) error {
	if apperr.Is(err, apperr.KindNotFound) {
		return apperr.Wrap(apperr.KindNotFound, apperr.CodeNotFound, msgUserNotFound, err)
	}
	return err
}
