// Package admin provides the user administration bounded context module.
package admin

import (
	"user_management_backend/internal/admin/handler"
	"user_management_backend/internal/admin/service"
	apphttp "user_management_backend/internal/http"
	"user_management_backend/internal/users/repository"
	"user_management_backend/platform/logger"
)

// Module is the admin bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates the admin module.
func NewModule(profiles repository.ProfileRepository, log *logger.Logger) *Module {
	return &Module{handler: handler.New(service.New(profiles, log))}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "admin"
}

// RegisterRoutes mounts /admin routes behind the admin role gate.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Admin)
}

var _ apphttp.Module = (*Module)(nil)
