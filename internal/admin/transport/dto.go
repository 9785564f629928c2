package transport

import (
	"time"

	"user_management_backend/internal/users"
)

// ListUsersQuery binds ?page=&limit= with their defaults.
type ListUsersQuery struct {
	Page  int `form:"page,default=1" validate:"min=1"`
	Limit int `form:"limit,default=10" validate:"min=1,max=100"`
}

// UpdateRoleRequest carries the new role. Unknown values are rejected by
// the service with INVALID_ROLE rather than as a generic validation error.
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type UserResponse struct {
	ID        string       `json:"id"`
	Email     string       `json:"email"`
	FullName  string       `json:"full_name"`
	Role      users.Role   `json:"role"`
	Status    users.Status `json:"status"`
	LastLogin *time.Time   `json:"last_login"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type UserSummary struct {
	ID       string       `json:"id"`
	Email    string       `json:"email"`
	FullName string       `json:"full_name"`
	Role     users.Role   `json:"role"`
	Status   users.Status `json:"status"`
}

func NewUserResponse(p users.Profile) UserResponse {
	return UserResponse{
		ID:        p.ID.String(),
		Email:     p.Email,
		FullName:  p.FullName,
		Role:      p.Role,
		Status:    p.Status,
		LastLogin: p.LastLogin,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func NewUserSummary(p users.Profile) UserSummary {
	return UserSummary{
		ID:       p.ID.String(),
		Email:    p.Email,
		FullName: p.FullName,
		Role:     p.Role,
		Status:   p.Status,
	}
}
