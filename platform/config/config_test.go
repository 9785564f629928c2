package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/users")
	t.Setenv("IDP_URL", "https://idp.example.com/")
	t.Setenv("IDP_ANON_KEY", "anon")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPAddr != ":5000" {
		t.Fatalf("expected default addr :5000, got %q", cfg.HTTPAddr)
	}
	if cfg.IDPURL != "https://idp.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.IDPURL)
	}
	if cfg.IDPServiceKey != "anon" {
		t.Fatalf("expected service key to fall back to anon key, got %q", cfg.IDPServiceKey)
	}
	if cfg.IDPTimeout != 10*time.Second {
		t.Fatalf("expected 10s timeout, got %v", cfg.IDPTimeout)
	}
	if cfg.ProfilePollAttempts != 5 || cfg.ProfilePollDelay != 100*time.Millisecond {
		t.Fatalf("unexpected poll defaults: %d %v", cfg.ProfilePollAttempts, cfg.ProfilePollDelay)
	}
	if !cfg.IsDevelopment() {
		t.Fatalf("expected development by default")
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing database", env: map[string]string{"DATABASE_URL": ""}},
		{name: "missing identity url", env: map[string]string{"IDP_URL": ""}},
		{name: "bad timeout", env: map[string]string{"IDP_TIMEOUT": "soon"}},
		{name: "no poll attempts", env: map[string]string{"PROFILE_POLL_ATTEMPTS": "0"}},
		{name: "wildcard with credentials", env: map[string]string{"CORS_ORIGINS": "*", "CORS_ALLOW_CREDENTIALS": "true"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			setRequired(t)
			for key, value := range tc.env {
				t.Setenv(key, value)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestLoadCORSOrigins(t *testing.T) {
	setRequired(t)
	t.Setenv("CORS_ORIGINS", " https://a.example.com , ,https://b.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	origins := cfg.GetCORSOrigins()
	if len(origins) != 2 || origins[0] != "https://a.example.com" || origins[1] != "https://b.example.com" {
		t.Fatalf("unexpected origins: %v", origins)
	}
	if cfg.GetCORSAllowAll() {
		t.Fatalf("expected explicit origins")
	}
}
