package httpkit

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"user_management_backend/platform/apperr"
	"user_management_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

func newEngine(development bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(ErrorHandling(logger.Discard(), development))
	engine.Use(Recovery())
	engine.NoRoute(NotFound())
	return engine
}

func serve(t *testing.T, engine *gin.Engine, path string) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid envelope %q: %v", rec.Body.String(), err)
	}
	return rec, env
}

func TestHandleErrorDomainErrors(t *testing.T) {
	engine := newEngine(false)
	engine.GET("/conflict", func(c *gin.Context) {
		HandleError(c, apperr.Conflict(apperr.CodeDuplicateEmail, "Email already registered"))
	})
	engine.GET("/validation", func(c *gin.Context) {
		HandleError(c, apperr.Validation([]apperr.FieldError{{Field: "email", Message: "Please provide a valid email address"}}))
	})

	rec, env := serve(t, engine, "/conflict")
	if rec.Code != http.StatusConflict || env.Success || env.Code != apperr.CodeDuplicateEmail || env.Message != "Email already registered" {
		t.Fatalf("unexpected conflict response: %d %+v", rec.Code, env)
	}

	rec, env = serve(t, engine, "/validation")
	if rec.Code != http.StatusBadRequest || len(env.Errors) != 1 || env.Errors[0].Field != "email" {
		t.Fatalf("unexpected validation response: %d %+v", rec.Code, env)
	}
}

func TestHandleErrorInternalHidesDetailsOutsideDevelopment(t *testing.T) {
	for _, development := range []bool{false, true} {
		engine := newEngine(development)
		engine.GET("/boom", func(c *gin.Context) {
			HandleError(c, errors.New("pq: relation users does not exist"))
		})

		rec, env := serve(t, engine, "/boom")
		if rec.Code != http.StatusInternalServerError || env.Message != "Internal Server Error" {
			t.Fatalf("unexpected response: %d %+v", rec.Code, env)
		}
		if development && env.Stack == "" {
			t.Fatalf("expected stack in development")
		}
		if !development && env.Stack != "" {
			t.Fatalf("expected no stack outside development, got %q", env.Stack)
		}
	}
}

func TestHandleErrorNil(t *testing.T) {
	engine := newEngine(false)
	engine.GET("/ok", func(c *gin.Context) {
		if HandleError(c, nil) {
			t.Errorf("nil error must not be handled")
		}
		OK(c, gin.H{"ok": true}, "fine")
	})

	rec, env := serve(t, engine, "/ok")
	if rec.Code != http.StatusOK || !env.Success || env.Message != "fine" {
		t.Fatalf("unexpected response: %d %+v", rec.Code, env)
	}
}

func TestRecovery(t *testing.T) {
	engine := newEngine(false)
	engine.GET("/panic", func(c *gin.Context) {
		panic("unexpected")
	})

	rec, env := serve(t, engine, "/panic")
	if rec.Code != http.StatusInternalServerError || env.Code != apperr.CodeInternal || env.Stack != "" {
		t.Fatalf("unexpected response: %d %+v", rec.Code, env)
	}
}

func TestNotFound(t *testing.T) {
	rec, env := serve(t, newEngine(false), "/nowhere")
	if rec.Code != http.StatusNotFound || env.Success || env.Message != "Route not found" {
		t.Fatalf("unexpected response: %d %+v", rec.Code, env)
	}
}

func TestPaginated(t *testing.T) {
	engine := newEngine(false)
	engine.GET("/list", func(c *gin.Context) {
		Paginated(c, []string{"a"}, Pagination{Page: 2, Limit: 1, Total: 2, TotalPages: 2}, "Users retrieved successfully")
	})

	_, env := serve(t, engine, "/list")
	if env.Pagination == nil || env.Pagination.Page != 2 || env.Pagination.TotalPages != 2 {
		t.Fatalf("unexpected pagination: %+v", env.Pagination)
	}
}
