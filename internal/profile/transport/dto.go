package transport

import (
	"time"

	"user_management_backend/internal/users"
	"user_management_backend/platform/sanitize"
	"user_management_backend/platform/validator"

	playground "github.com/go-playground/validator/v10"
)

func init() {
	validator.Validate.RegisterStructValidation(requireOneField, UpdateProfileRequest{})
}

// UpdateProfileRequest only binds the self-service fields; anything else in
// the body is dropped during decoding.
type UpdateProfileRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,min=2,max=100"`
	Email    *string `json:"email" validate:"omitempty,email"`
}

// Normalize cleans the provided fields so validation sees what will be
// stored. A name made only of markup becomes empty and fails min=2.
func (r *UpdateProfileRequest) Normalize() {
	r.FullName = sanitize.NamePtr(r.FullName)
	r.Email = sanitize.EmailPtr(r.Email)
}

// ToUpdate converts the request into a store update.
func (r UpdateProfileRequest) ToUpdate() users.ProfileUpdate {
	return users.ProfileUpdate{FullName: r.FullName, Email: r.Email}
}

func requireOneField(sl playground.StructLevel) {
	req := sl.Current().Interface().(UpdateProfileRequest)
	if req.FullName == nil && req.Email == nil {
		sl.ReportError(req, "", "", "atleastone", "")
	}
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

type ProfileResponse struct {
	ID        string       `json:"id"`
	Email     string       `json:"email"`
	FullName  string       `json:"full_name"`
	Role      users.Role   `json:"role"`
	Status    users.Status `json:"status"`
	LastLogin *time.Time   `json:"last_login"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type UpdatedProfileResponse struct {
	ID       string       `json:"id"`
	Email    string       `json:"email"`
	FullName string       `json:"full_name"`
	Role     users.Role   `json:"role"`
	Status   users.Status `json:"status"`
}

func NewProfileResponse(p users.Profile) ProfileResponse {
	return ProfileResponse{
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

func NewUpdatedProfileResponse(p users.Profile) UpdatedProfileResponse {
	return UpdatedProfileResponse{
		ID:       p.ID.String(),
		Email:    p.Email,
		FullName: p.FullName,
		Role:     p.Role,
		Status:   p.Status,
	}
}
