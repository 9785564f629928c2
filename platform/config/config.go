// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// EnvConfig exposes the runtime environment name.
type EnvConfig interface {
	GetEnv() string
	IsDevelopment() bool
}

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// MigrationConfig controls automatic schema migrations at startup.
type MigrationConfig interface {
	DatabaseConfig
	GetMigrationsEnabled() bool
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	EnvConfig
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// IdentityProviderConfig provides settings for the hosted identity provider.
type IdentityProviderConfig interface {
	GetIdentityProviderURL() string
	GetIdentityProviderAnonKey() string
	GetIdentityProviderServiceKey() string
	GetIdentityProviderJWTSecret() string
	GetIdentityProviderTimeout() time.Duration
}

// SignupConfig controls how long signup waits for the profile row to appear.
type SignupConfig interface {
	GetProfilePollAttempts() int
	GetProfilePollDelay() time.Duration
}

// SchedulerConfig provides settings for the Redis-backed task queue.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetEmailSyncMaxRetry() int
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                 string
	HTTPAddr            string
	DatabaseURL         string
	MigrationsEnabled   bool
	IDPURL              string
	IDPAnonKey          string
	IDPServiceKey       string
	IDPJWTSecret        string
	IDPTimeout          time.Duration
	CORSAllowAll        bool
	CORSOrigins         []string
	CORSAllowCreds      bool
	ProfilePollAttempts int
	ProfilePollDelay    time.Duration
	RedisURL            string
	RedisTLSInsecure    bool
	AsynqQueueName      string
	AsynqConcurrency    int
	EmailSyncMaxRetry   int
}

// =============================================================================
// Interface Implementations
// =============================================================================

// EnvConfig implementation
func (c *Config) GetEnv() string      { return c.Env }
func (c *Config) IsDevelopment() bool { return strings.EqualFold(c.Env, "development") }

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string     { return c.DatabaseURL }
func (c *Config) GetMigrationsEnabled() bool { return c.MigrationsEnabled }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// IdentityProviderConfig implementation
func (c *Config) GetIdentityProviderURL() string            { return c.IDPURL }
func (c *Config) GetIdentityProviderAnonKey() string        { return c.IDPAnonKey }
func (c *Config) GetIdentityProviderServiceKey() string     { return c.IDPServiceKey }
func (c *Config) GetIdentityProviderJWTSecret() string      { return c.IDPJWTSecret }
func (c *Config) GetIdentityProviderTimeout() time.Duration { return c.IDPTimeout }

// SignupConfig implementation
func (c *Config) GetProfilePollAttempts() int        { return c.ProfilePollAttempts }
func (c *Config) GetProfilePollDelay() time.Duration { return c.ProfilePollDelay }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }
func (c *Config) GetEmailSyncMaxRetry() int { return c.EmailSyncMaxRetry }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	anonKey := getEnv("IDP_ANON_KEY", "")

	cfg := &Config{
		Env:                 getEnv("APP_ENV", "development"),
		HTTPAddr:            getEnv("HTTP_ADDR", ":5000"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		MigrationsEnabled:   strings.EqualFold(getEnv("MIGRATIONS_ENABLED", "true"), "true"),
		IDPURL:              strings.TrimRight(getEnv("IDP_URL", ""), "/"),
		IDPAnonKey:          anonKey,
		IDPServiceKey:       getEnv("IDP_SERVICE_ROLE_KEY", anonKey),
		IDPJWTSecret:        getEnv("IDP_JWT_SECRET", ""),
		IDPTimeout:          mustDuration(getEnv("IDP_TIMEOUT", "10s")),
		CORSAllowAll:        corsAllowAll,
		CORSOrigins:         corsOrigins,
		CORSAllowCreds:      strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		ProfilePollAttempts: mustInt(getEnv("PROFILE_POLL_ATTEMPTS", "5")),
		ProfilePollDelay:    mustDuration(getEnv("PROFILE_POLL_DELAY", "100ms")),
		RedisURL:            getEnv("REDIS_URL", ""),
		RedisTLSInsecure:    strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:      getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:    mustInt(getEnv("ASYNQ_CONCURRENCY", "5")),
		EmailSyncMaxRetry:   mustInt(getEnv("EMAIL_SYNC_MAX_RETRY", "10")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.IDPURL == "" || c.IDPAnonKey == "" {
		return fmt.Errorf("IDP_URL and IDP_ANON_KEY are required")
	}
	if c.IDPTimeout <= 0 {
		return fmt.Errorf("IDP_TIMEOUT must be a positive duration")
	}
	if c.ProfilePollAttempts < 1 {
		return fmt.Errorf("PROFILE_POLL_ATTEMPTS must be at least 1")
	}
	if c.CORSAllowAll && c.CORSAllowCreds {
		return fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
