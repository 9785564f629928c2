package handler

import (
	"user_management_backend/internal/auth/authz"
	"user_management_backend/internal/auth/service"
	"user_management_backend/internal/auth/transport"
	"user_management_backend/internal/identity"
	"user_management_backend/internal/users"
	"user_management_backend/platform/apperr"
	"user_management_backend/platform/httpkit"
	"user_management_backend/platform/logger"
	"user_management_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *service.Service
	log *logger.Logger
}

const (
	msgInvalidRequest  = "Invalid request body"
	msgInactiveAccount = "Account is inactive. Please contact support."
)

func New(svc *service.Service, log *logger.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// RegisterPublicRoutes mounts the unauthenticated auth routes.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/signup", h.Signup)
	rg.POST("/login", h.Login)
}

// RegisterProtectedRoutes mounts the auth routes behind the pipeline.
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/logout", h.Logout)
	rg.GET("/me", h.Me)
}

func (h *Handler) Signup(c *gin.Context) {
	var req transport.SignupRequest
	if !bind(c, &req) {
		return
	}

	result, err := h.svc.Signup(c.Request.Context(), req.Email, req.Password, req.FullName)
	if httpkit.HandleError(c, err) {
		return
	}

	resp := transport.SessionResponse{
		User: transport.UserSummary{
			ID:       result.Principal.ID.String(),
			Email:    result.Principal.Email,
			FullName: req.FullName,
			Role:     users.RoleUser,
			Status:   users.StatusActive,
		},
	}
	if result.Profile != nil {
		resp.User.FullName = result.Profile.FullName
		resp.User.Role = result.Profile.Role
		resp.User.Status = result.Profile.Status
	}
	if result.Session != nil {
		resp.AccessToken = result.Session.AccessToken
		resp.RefreshToken = result.Session.RefreshToken
	}

	httpkit.Created(c, resp, "User registered successfully")
}

func (h *Handler) Login(c *gin.Context) {
	var req transport.LoginRequest
	if !bind(c, &req) {
		return
	}

	ctx := c.Request.Context()
	result, err := h.svc.Login(ctx, req.Email, req.Password)
	if httpkit.HandleError(c, err) {
		return
	}

	// Valid credentials do not make an account usable. The session just
	// issued is revoked so it cannot be used against protected routes.
	if result.Profile == nil || !result.Profile.IsActive() {
		h.log.WithContext(ctx).AuthEvent("login", req.Email, false, "account inactive")
		h.svc.Logout(ctx, result.Session.AccessToken)
		httpkit.HandleError(c, apperr.Forbidden(apperr.CodeInactiveAccount, msgInactiveAccount))
		return
	}

	httpkit.OK(c, transport.SessionResponse{
		User:         summary(result.Principal, *result.Profile),
		AccessToken:  result.Session.AccessToken,
		RefreshToken: result.Session.RefreshToken,
	}, "Login successful")
}

func (h *Handler) Logout(c *gin.Context) {
	if authCtx, ok := authz.FromContext(c); ok {
		h.svc.Logout(c.Request.Context(), authCtx.Token)
	}
	httpkit.OK(c, nil, "Logout successful")
}

func (h *Handler) Me(c *gin.Context) {
	authCtx, ok := authz.FromContext(c)
	if !ok {
		httpkit.HandleError(c, apperr.Unauthorized(apperr.CodeAuthRequired, "Authentication required"))
		return
	}

	profile, err := h.svc.GetCurrentUser(c.Request.Context(), authCtx.ID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.CurrentUserResponse{
		ID:        profile.ID.String(),
		Email:     profile.Email,
		FullName:  profile.FullName,
		Role:      profile.Role,
		Status:    profile.Status,
		LastLogin: profile.LastLogin,
		CreatedAt: profile.CreatedAt,
	}, "")
}

func summary(principal identity.Principal, profile users.Profile) transport.UserSummary {
	return transport.UserSummary{
		ID:       principal.ID.String(),
		Email:    principal.Email,
		FullName: profile.FullName,
		Role:     profile.Role,
		Status:   profile.Status,
	}
}

// normalizer is implemented by requests that clean their fields before
// validation.
type normalizer interface {
	Normalize()
}

func bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.HandleError(c, validator.BindingError(err, msgInvalidRequest, nil))
		return false
	}
	if n, ok := req.(normalizer); ok {
		n.Normalize()
	}
	if err := validator.Validate.Struct(req); err != nil {
		httpkit.HandleError(c, err)
		return false
	}
	return true
}
