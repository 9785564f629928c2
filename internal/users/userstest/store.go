// Package userstest provides an in-memory profile store for tests.
package userstest

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"user_management_backend/internal/users"
	"user_management_backend/internal/users/repository"
	"user_management_backend/platform/apperr"

	"github.com/google/uuid"
)

// Store mimics the Postgres repository: missing rows are NotFound and a
// duplicate email is a Conflict.
type Store struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]users.Profile
	now      func() time.Time

	// Err, when set, is returned by every call.
	Err error
	// Writes counts successful mutations.
	Writes int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		profiles: make(map[uuid.UUID]users.Profile),
		now:      time.Now,
	}
}

// Put inserts or replaces a profile, filling defaults the database would set.
func (s *Store) Put(p users.Profile) users.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Role == "" {
		p.Role = users.RoleUser
	}
	if p.Status == "" {
		p.Status = users.StatusActive
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	s.profiles[p.ID] = p
	return p
}

// Get returns the stored profile without going through the interface.
func (s *Store) Get(id uuid.UUID) (users.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	return p, ok
}

func (s *Store) GetByID(_ context.Context, id uuid.UUID) (users.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return users.Profile{}, s.Err
	}
	p, ok := s.profiles[id]
	if !ok {
		return users.Profile{}, notFound()
	}
	return p, nil
}

func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	return len(s.profiles), nil
}

func (s *Store) List(_ context.Context, offset, limit int) ([]users.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	all := make([]users.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID.String() < all[j].ID.String()
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return []users.Profile{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (s *Store) Update(_ context.Context, id uuid.UUID, update users.ProfileUpdate) (users.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return users.Profile{}, s.Err
	}
	p, ok := s.profiles[id]
	if !ok {
		return users.Profile{}, notFound()
	}
	if update.Email != nil {
		for otherID, other := range s.profiles {
			if otherID != id && strings.EqualFold(other.Email, *update.Email) {
				return users.Profile{}, apperr.Wrap(apperr.KindConflict, apperr.CodeConflict, "Resource already exists", errors.New("duplicate email"))
			}
		}
		p.Email = *update.Email
	}
	if update.FullName != nil {
		p.FullName = *update.FullName
	}
	return s.save(p), nil
}

func (s *Store) SetStatus(_ context.Context, id uuid.UUID, status users.Status) (users.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return users.Profile{}, s.Err
	}
	p, ok := s.profiles[id]
	if !ok {
		return users.Profile{}, notFound()
	}
	p.Status = status
	return s.save(p), nil
}

func (s *Store) SetRole(_ context.Context, id uuid.UUID, role users.Role) (users.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return users.Profile{}, s.Err
	}
	p, ok := s.profiles[id]
	if !ok {
		return users.Profile{}, notFound()
	}
	p.Role = role
	return s.save(p), nil
}

func (s *Store) TouchLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	p, ok := s.profiles[id]
	if !ok {
		return notFound()
	}
	p.LastLogin = &at
	s.profiles[id] = p
	s.Writes++
	return nil
}

func (s *Store) save(p users.Profile) users.Profile {
	p.UpdatedAt = s.now()
	s.profiles[p.ID] = p
	s.Writes++
	return p
}

func notFound() error {
	return apperr.NotFound(apperr.CodeNotFound, "Resource not found")
}

var _ repository.ProfileRepository = (*Store)(nil)
