package transport

import (
	"time"

	"user_management_backend/internal/users"
	"user_management_backend/platform/sanitize"
)

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
}

// Normalize cleans the input so validation sees what will be stored.
func (r *SignupRequest) Normalize() {
	r.Email = sanitize.Email(r.Email)
	r.FullName = sanitize.Name(r.FullName)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = sanitize.Email(r.Email)
}

type UserSummary struct {
	ID       string       `json:"id"`
	Email    string       `json:"email"`
	FullName string       `json:"full_name"`
	Role     users.Role   `json:"role"`
	Status   users.Status `json:"status"`
}

type SessionResponse struct {
	User         UserSummary `json:"user"`
	AccessToken  string      `json:"access_token,omitempty"`
	RefreshToken string      `json:"refresh_token,omitempty"`
}

type CurrentUserResponse struct {
	ID        string       `json:"id"`
	Email     string       `json:"email"`
	FullName  string       `json:"full_name"`
	Role      users.Role   `json:"role"`
	Status    users.Status `json:"status"`
	LastLogin *time.Time   `json:"last_login"`
	CreatedAt time.Time    `json:"created_at"`
}
