package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"lacri-bot/pkg/log"
)

func TestTraceID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mw := New(log.NewNop())

	var seen string
	r := gin.New()
	r.Use(mw.TraceID(), mw.Metrics(), mw.Logging())
	r.GET("/x", func(c *gin.Context) {
		seen = log.TraceID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/x", nil)
		r.ServeHTTP(w, req)

		if seen == "" {
			t.Fatal("expected a trace id in the request context")
		}
		if w.Header().Get(RequestIDHeader) != seen {
			t.Errorf("expected response header %q, got %q", seen, w.Header().Get(RequestIDHeader))
		}
	})

	t.Run("propagated", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		r.ServeHTTP(w, req)

		if seen != "abc-123" {
			t.Errorf("expected propagated trace id, got %q", seen)
		}
	})
}
