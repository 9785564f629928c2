// Package profile provides the self-service profile bounded context module.
package profile

import (
	apphttp "user_management_backend/internal/http"
	"user_management_backend/internal/identity"
	"user_management_backend/internal/profile/handler"
	"user_management_backend/internal/profile/service"
	"user_management_backend/internal/users/repository"
	"user_management_backend/platform/events"
	"user_management_backend/platform/logger"
)

// Module is the profile bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates the profile module. recorder may be nil.
func NewModule(profiles repository.ProfileRepository, provider identity.Provider, bus events.Bus, recorder service.EmailSyncRecorder, log *logger.Logger) *Module {
	svc := service.New(profiles, provider, bus, recorder, log)
	return &Module{handler: handler.New(svc)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "profile"
}

// RegisterRoutes mounts /users routes behind the user role gate.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Users)
}

var _ apphttp.Module = (*Module)(nil)
