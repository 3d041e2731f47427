package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func requestIDRouter(seen *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		*seen = RequestIDFromContext(c)
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestRequestIDGenerated(t *testing.T) {
	var seen string
	w := httptest.NewRecorder()
	requestIDRouter(&seen).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	got := w.Header().Get("X-Request-Id")
	if _, err := uuid.Parse(got); err != nil {
		t.Fatalf("expected uuid request id, got %q", got)
	}
	if seen != got {
		t.Fatalf("context id %q != header id %q", seen, got)
	}
}

func TestRequestIDPropagated(t *testing.T) {
	var seen string
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	w := httptest.NewRecorder()
	requestIDRouter(&seen).ServeHTTP(w, req)

	if seen != "abc-123" || w.Header().Get("X-Request-Id") != "abc-123" {
		t.Fatalf("expected caller id to be reused, got %q", seen)
	}
}

func TestRequestIDRejectsUnsafeValues(t *testing.T) {
	for _, bad := range []string{"has space", strings.Repeat("a", 129), "tab\tid"} {
		var seen string
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-Id", bad)
		requestIDRouter(&seen).ServeHTTP(httptest.NewRecorder(), req)
		if seen == bad {
			t.Fatalf("unsafe id %q was reused", bad)
		}
	}
}
