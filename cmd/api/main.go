package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"user_management_backend/api"
	"user_management_backend/internal/admin"
	"user_management_backend/internal/auth"
	"user_management_backend/internal/auth/authz"
	"user_management_backend/internal/docs"
	apphttp "user_management_backend/internal/http"
	"user_management_backend/internal/http/router"
	"user_management_backend/internal/identity/gotrue"
	"user_management_backend/internal/profile"
	"user_management_backend/internal/scheduler"
	"user_management_backend/internal/users/repository"
	"user_management_backend/migrations"
	"user_management_backend/platform/config"
	"user_management_backend/platform/db"
	"user_management_backend/platform/events"
	"user_management_backend/platform/logger"
	"user_management_backend/platform/metrics"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

const (
	metricsNamespace = "user_management"
	shutdownTimeout  = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if cfg.GetMigrationsEnabled() {
		if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
			return db.RunMigrations(ctx, cfg, migrations.FS)
		}); err != nil {
			log.Error("failed to run database migrations", "error", err)
			panic("failed to run database migrations: " + err.Error())
		}
		log.Info("database migrations complete")
	}

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	appMetrics := metrics.New(metricsNamespace)
	health := map[string]apphttp.HealthChecker{
		"database": db.NewPoolAdapter(pool),
	}

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	closeScheduler := initEmailSync(cfg, eventBus, health, log)
	defer closeScheduler()

	// ========================================================================
	// Domain Modules
	// ========================================================================

	provider := gotrue.New(cfg, log, gotrue.WithRecorder(appMetrics))
	profiles := repository.New(pool)
	pipeline := authz.NewPipeline(provider, profiles, appMetrics, log)

	docsModule, err := docs.NewModule(ctx, api.OpenAPI)
	if err != nil {
		log.Error("failed to load api document", "error", err)
		panic("failed to load api document: " + err.Error())
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:     cfg,
		Logger:     log,
		Health:     health,
		Metrics:    appMetrics,
		Authorizer: pipeline,
		Modules: []apphttp.Module{
			auth.NewModule(provider, profiles, cfg, log),
			profile.NewModule(profiles, provider, eventBus, appMetrics, log),
			admin.NewModule(profiles, log),
			docsModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		eventBus.Wait()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
	log.Info("server stopped")
}

// initEmailSync wires failed email propagations to the retry queue. Without
// Redis the failures are only logged.
func initEmailSync(cfg config.SchedulerConfig, bus events.Bus, health map[string]apphttp.HealthChecker, log *logger.Logger) func() {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; identity email sync retries disabled")
		return func() {}
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize email sync scheduler client", "error", err)
		return func() {}
	}
	scheduler.NewEmailSyncSubscriber(client, log).RegisterHandlers(bus)

	redisHealth, err := scheduler.NewRedisHealth(cfg.GetRedisURL(), cfg.GetRedisTLSInsecure())
	if err != nil {
		log.Error("failed to initialize redis health check", "error", err)
		return func() { _ = client.Close() }
	}
	health["redis"] = redisHealth

	return func() {
		_ = client.Close()
		_ = redisHealth.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
