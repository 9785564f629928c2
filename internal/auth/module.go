// Package auth provides the authentication bounded context module.
// This file defines the module that encapsulates all auth setup and route registration.
package auth

import (
	"user_management_backend/internal/auth/handler"
	"user_management_backend/internal/auth/service"
	apphttp "user_management_backend/internal/http"
	"user_management_backend/internal/identity"
	"user_management_backend/internal/users/repository"
	"user_management_backend/platform/config"
	"user_management_backend/platform/logger"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the auth module with all its dependencies.
func NewModule(provider identity.Provider, profiles repository.ProfileRepository, cfg config.SignupConfig, log *logger.Logger) *Module {
	svc := service.New(provider, profiles, cfg, log)
	h := handler.New(svc, log)

	return &Module{handler: h}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// RegisterRoutes mounts auth routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterPublicRoutes(ctx.Public.Group("/auth"))
	m.handler.RegisterProtectedRoutes(ctx.Protected.Group("/auth"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
