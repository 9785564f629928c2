package authz

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"user_management_backend/internal/identity/identitytest"
	"user_management_backend/internal/users"
	"user_management_backend/internal/users/userstest"
	"user_management_backend/platform/httpkit"
	"user_management_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

type countingRecorder struct {
	codes []string
}

func (r *countingRecorder) RecordAuthRejection(code string) {
	r.codes = append(r.codes, code)
}

type fixture struct {
	provider *identitytest.Provider
	store    *userstest.Store
	recorder *countingRecorder
	engine   *gin.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &fixture{
		provider: identitytest.NewProvider(),
		store:    userstest.NewStore(),
		recorder: &countingRecorder{},
	}
	pipeline := NewPipeline(f.provider, f.store, f.recorder, logger.Discard())

	f.engine = gin.New()
	f.engine.Use(httpkit.ErrorHandling(logger.Discard(), false))
	protected := f.engine.Group("", pipeline.Authenticate())
	protected.GET("/me", pipeline.RequireUser(), func(c *gin.Context) {
		authCtx, _ := FromContext(c)
		httpkit.OK(c, gin.H{"id": authCtx.ID, "role": authCtx.Role}, "")
	})
	protected.GET("/admin", pipeline.RequireAdmin(), func(c *gin.Context) {
		httpkit.OK(c, nil, "ok")
	})
	// Role gate without the pipeline in front of it.
	f.engine.GET("/unguarded", pipeline.RequireAdmin(), func(c *gin.Context) {
		httpkit.OK(c, nil, "ok")
	})
	return f
}

func (f *fixture) account(t *testing.T, role users.Role, status users.Status) string {
	t.Helper()
	principal := f.provider.AddAccount(string(role)+"-"+string(status)+"@x.com", "Secret1")
	f.store.Put(users.Profile{ID: principal.ID, Email: principal.Email, FullName: "Test", Role: role, Status: status})
	return f.provider.IssueToken(principal)
}

func (f *fixture) do(method, path, authHeader string) (*httptest.ResponseRecorder, httpkit.Envelope) {
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)

	var env httpkit.Envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestAuthenticateRejections(t *testing.T) {
	f := newFixture(t)

	orphan := f.provider.AddAccount("orphan@x.com", "Secret1")
	orphanToken := f.provider.IssueToken(orphan)
	inactiveToken := f.account(t, users.RoleUser, users.StatusInactive)

	tests := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{name: "missing header", header: "", status: http.StatusUnauthorized, code: "NO_TOKEN"},
		{name: "wrong scheme", header: "Basic abc", status: http.StatusUnauthorized, code: "NO_TOKEN"},
		{name: "lowercase bearer", header: "bearer abc", status: http.StatusUnauthorized, code: "NO_TOKEN"},
		{name: "empty token", header: "Bearer ", status: http.StatusUnauthorized, code: "NO_TOKEN"},
		{name: "unknown token", header: "Bearer nope", status: http.StatusUnauthorized, code: "INVALID_TOKEN"},
		{name: "no profile", header: "Bearer " + orphanToken, status: http.StatusNotFound, code: "PROFILE_NOT_FOUND"},
		{name: "inactive", header: "Bearer " + inactiveToken, status: http.StatusForbidden, code: "INACTIVE_ACCOUNT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifications := f.provider.Verifications()
			rec, env := f.do(http.MethodGet, "/me", tt.header)
			if tt.code == "NO_TOKEN" && f.provider.Verifications() != verifications {
				t.Fatalf("a request without a bearer token must not reach the provider")
			}
			if rec.Code != tt.status {
				t.Fatalf("expected status %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if env.Success || string(env.Code) != tt.code {
				t.Fatalf("expected failure with code %s, got %+v", tt.code, env)
			}
		})
	}

	if len(f.recorder.codes) != len(tests) {
		t.Fatalf("expected %d recorded rejections, got %v", len(tests), f.recorder.codes)
	}
}

func TestAuthenticateProviderFailureIsInvalidToken(t *testing.T) {
	f := newFixture(t)
	token := f.account(t, users.RoleUser, users.StatusActive)
	f.provider.VerifyErr = errors.New("connection refused")

	rec, env := f.do(http.MethodGet, "/me", "Bearer "+token)
	if rec.Code != http.StatusUnauthorized || env.Code != "INVALID_TOKEN" {
		t.Fatalf("expected 401 INVALID_TOKEN, got %d %s", rec.Code, env.Code)
	}
}

func TestAuthenticateStoreFailureIsInternal(t *testing.T) {
	f := newFixture(t)
	token := f.account(t, users.RoleUser, users.StatusActive)
	f.store.Err = errors.New("connection reset")

	rec, env := f.do(http.MethodGet, "/me", "Bearer "+token)
	if rec.Code != http.StatusInternalServerError || env.Code != "INTERNAL" {
		t.Fatalf("expected 500 INTERNAL, got %d %s", rec.Code, env.Code)
	}
	if env.Stack != "" {
		t.Fatal("stack must not leak outside development")
	}
}

func TestRoleGates(t *testing.T) {
	f := newFixture(t)
	userToken := f.account(t, users.RoleUser, users.StatusActive)
	adminToken := f.account(t, users.RoleAdmin, users.StatusActive)

	tests := []struct {
		name   string
		path   string
		header string
		status int
		code   string
	}{
		{name: "user reaches user route", path: "/me", header: "Bearer " + userToken, status: http.StatusOK},
		{name: "admin reaches user route", path: "/me", header: "Bearer " + adminToken, status: http.StatusOK},
		{name: "user denied admin route", path: "/admin", header: "Bearer " + userToken, status: http.StatusForbidden, code: "FORBIDDEN_ROLE"},
		{name: "admin reaches admin route", path: "/admin", header: "Bearer " + adminToken, status: http.StatusOK},
		{name: "gate without context", path: "/unguarded", header: "Bearer " + adminToken, status: http.StatusUnauthorized, code: "AUTH_REQUIRED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := f.do(http.MethodGet, tt.path, tt.header)
			if rec.Code != tt.status {
				t.Fatalf("expected status %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if tt.code != "" && string(env.Code) != tt.code {
				t.Fatalf("expected code %s, got %s", tt.code, env.Code)
			}
		})
	}
}

func TestAuthorizeAttachesProfile(t *testing.T) {
	provider := identitytest.NewProvider()
	store := userstest.NewStore()
	principal := provider.AddAccount("ann@x.com", "Secret1")
	store.Put(users.Profile{ID: principal.ID, Email: "ann@x.com", FullName: "Ann", Role: users.RoleAdmin, Status: users.StatusActive})
	token := provider.IssueToken(principal)

	authCtx, err := NewPipeline(provider, store, nil, logger.Discard()).Authorize(t.Context(), "Bearer "+token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if authCtx.ID != principal.ID || authCtx.Role != users.RoleAdmin || authCtx.Profile.FullName != "Ann" || authCtx.Token != token {
		t.Fatalf("unexpected context: %+v", authCtx)
	}
}
