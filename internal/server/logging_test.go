package server

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

// captureLogs routes the default logger into a buffer for the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })
	return &buf
}

func loggedRouter(path string, status int) http.Handler {
	r := chi.NewRouter()
	r.Use(slogMiddleware)
	r.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})
	return r
}

func TestSlogMiddleware_LogsStorageRequest(t *testing.T) {
	buf := captureLogs(t)

	req := httptest.NewRequest(http.MethodPut, "/api/storage/favorites", nil)
	req.RemoteAddr = "192.0.2.4:5100"
	loggedRouter("/api/storage/favorites", http.StatusNoContent).ServeHTTP(httptest.NewRecorder(), req)

	output := buf.String()
	for _, field := range []string{
		"method=PUT",
		"path=/api/storage/favorites",
		"status=204",
		"remote_addr=192.0.2.4:5100",
		"duration_ms=",
	} {
		if !strings.Contains(output, field) {
			t.Errorf("expected log to contain %q, got: %s", field, output)
		}
	}
}

func TestSlogMiddleware_SkipsHealthAndMetrics(t *testing.T) {
	for _, path := range []string{"/api/health", "/metrics"} {
		t.Run(path, func(t *testing.T) {
			buf := captureLogs(t)

			rec := httptest.NewRecorder()
			loggedRouter(path, http.StatusOK).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

			if rec.Code != http.StatusOK {
				t.Errorf("expected status 200, got %d", rec.Code)
			}
			if buf.Len() != 0 {
				t.Errorf("expected no log output for %s, got: %s", path, buf.String())
			}
		})
	}
}

func TestSlogMiddleware_LogsResolveFailureStatus(t *testing.T) {
	buf := captureLogs(t)

	loggedRouter("/api/resolve", http.StatusUnprocessableEntity).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/resolve?url=x", nil))

	if output := buf.String(); !strings.Contains(output, "status=422") {
		t.Errorf("expected log to contain status=422, got: %s", output)
	}
}

func TestSlogMiddleware_LogsBrowser(t *testing.T) {
	buf := captureLogs(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0")
	loggedRouter("/", http.StatusOK).ServeHTTP(httptest.NewRecorder(), req)

	output := buf.String()
	if !strings.Contains(output, "Firefox 125.0") {
		t.Errorf("expected log to contain browser, got: %s", output)
	}
	if !strings.Contains(output, "bot=false") {
		t.Errorf("expected log to contain bot=false, got: %s", output)
	}
}
