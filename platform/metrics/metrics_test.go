package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareCountsRequestsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New("test")
	engine := gin.New()
	engine.Use(m.Middleware())
	engine.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/42", nil))
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	if got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/items/:id", "204")); got != 3 {
		t.Fatalf("expected 3 matched requests, got %v", got)
	}
	if got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", unmatchedRoute, "404")); got != 1 {
		t.Fatalf("expected 1 unmatched request, got %v", got)
	}
	if got := testutil.ToFloat64(m.HTTPRequestsInFlight); got != 0 {
		t.Fatalf("expected no requests in flight, got %v", got)
	}
}

func TestRecordersAreNilSafe(t *testing.T) {
	var m *Metrics
	m.RecordAuthRejection("NO_TOKEN")
	m.RecordIdentityRequest("verify", errors.New("boom"))
	m.RecordEmailSync("failed")
}

func TestHandlerExposesCustomCounters(t *testing.T) {
	m := New("test")
	m.RecordAuthRejection("INVALID_TOKEN")
	m.RecordIdentityRequest("sign_in", nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	for _, want := range []string{
		`test_auth_rejections_total{code="INVALID_TOKEN"} 1`,
		`test_identity_provider_requests_total{operation="sign_in",outcome="ok"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected metrics output to contain %q", want)
		}
	}
}
