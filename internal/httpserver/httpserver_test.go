package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lacri-bot/pkg/log"
)

func newTestServer(t *testing.T) *HTTPServer {
	t.Helper()
	srv, err := New(log.NewNop(), Config{Port: 8080, Mode: "test", Environment: "development"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return srv
}

func get(srv *HTTPServer, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestSystemRoutes(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/health", "/live"} {
		if w := get(srv, path); w.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, w.Code)
		}
	}

	if w := get(srv, "/ready"); w.Code != http.StatusServiceUnavailable {
		t.Errorf("/ready before SetReady: expected 503, got %d", w.Code)
	}
	srv.SetReady(true)
	if w := get(srv, "/ready"); w.Code != http.StatusOK {
		t.Errorf("/ready after SetReady: expected 200, got %d", w.Code)
	}

	w := get(srv, "/metrics")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "lacri_http_requests_total") {
		t.Errorf("/metrics: expected lacri metrics, got %d", w.Code)
	}
}

func TestNoWebhookRouteWithoutHandler(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/webhook/telegram", strings.NewReader("{}"))
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestValidate(t *testing.T) {
	if _, err := New(log.NewNop(), Config{Mode: "test"}); err == nil {
		t.Error("expected error for missing port")
	}
	if _, err := New(nil, Config{Port: 1, Mode: "test"}); err == nil {
		t.Error("expected error for missing logger")
	}
}
