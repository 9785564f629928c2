// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"context"

	"user_management_backend/platform/config"
	"user_management_backend/platform/logger"
	"user_management_backend/platform/metrics"

	"github.com/gin-gonic/gin"
)

// HealthChecker exposes minimal functionality for readiness checks.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Authorizer provides the authorization pipeline middlewares.
type Authorizer interface {
	Authenticate() gin.HandlerFunc
	RequireUser() gin.HandlerFunc
	RequireAdmin() gin.HandlerFunc
}

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the router configuration.
	Config config.HTTPConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Health maps a readiness check name to its checker (e.g. database, redis).
	Health map[string]HealthChecker
	// Metrics is the Prometheus instrumentation; nil disables /metrics.
	Metrics *metrics.Metrics
	// Authorizer guards protected groups.
	Authorizer Authorizer
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}
