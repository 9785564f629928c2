// Package router builds the gin engine: global middleware, health and
// readiness checks, metrics, and the route groups handed to each module.
package router

import (
	"context"
	"net/http"
	"sort"
	"time"

	apphttp "user_management_backend/internal/http"
	"user_management_backend/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const readinessTimeout = 2 * time.Second

// New creates the engine and registers every module.
func New(app *apphttp.App) *gin.Engine {
	if !app.Config.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = false

	engine.Use(httpkit.ErrorHandling(app.Logger, app.Config.IsDevelopment()))
	engine.Use(httpkit.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(cors.New(corsConfig(app)))
	if app.Metrics != nil {
		engine.Use(app.Metrics.Middleware())
		engine.GET("/metrics", gin.WrapH(app.Metrics.Handler()))
	}

	engine.GET("/health", func(c *gin.Context) {
		httpkit.OK(c, gin.H{"status": "ok"}, "")
	})
	engine.GET("/ready", readiness(app.Health))

	public := engine.Group("")
	protected := engine.Group("", app.Authorizer.Authenticate())
	ctx := &apphttp.RouterContext{
		Engine:    engine,
		Public:    public,
		Protected: protected,
		Users:     protected.Group("/users", app.Authorizer.RequireUser()),
		Admin:     protected.Group("/admin", app.Authorizer.RequireAdmin()),
	}

	for _, module := range app.Modules {
		module.RegisterRoutes(ctx)
		app.Logger.Debug("module registered", "module", module.Name())
	}

	engine.NoRoute(httpkit.NotFound())

	return engine
}

func corsConfig(app *apphttp.App) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", httpkit.HeaderRequestID},
		ExposeHeaders:    []string{httpkit.HeaderRequestID},
		AllowCredentials: app.Config.GetCORSAllowCreds(),
		MaxAge:           12 * time.Hour,
	}

	origins := app.Config.GetCORSOrigins()
	if app.Config.GetCORSAllowAll() || len(origins) == 0 {
		cfg.AllowAllOrigins = true
		// Wildcard origins cannot be combined with credentials.
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// readiness pings every dependency and reports each one by name.
func readiness(checks map[string]apphttp.HealthChecker) gin.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(names))
		for _, name := range names {
			if err := checks[name].Ping(ctx); err != nil {
				results[name] = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}

		httpkit.JSON(c, status, httpkit.Envelope{
			Success: status == http.StatusOK,
			Data:    results,
		})
	}
}
