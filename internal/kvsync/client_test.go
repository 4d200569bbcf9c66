package kvsync

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/spherecast/spherecast/internal/kvstore"
	"github.com/spherecast/spherecast/internal/session"
)

// newClientServer serves the storage API with every request belonging to
// the client "browser-1".
func newClientServer(t *testing.T, store kvstore.Store) *Client {
	t.Helper()
	h := kvstore.NewHandler(store)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(session.ContextWithClientID(req.Context(), "browser-1")))
		})
	})
	r.Get("/api/storage/{key}", h.Get)
	r.Put("/api/storage/{key}", h.Put)
	r.Delete("/api/storage/{key}", h.Delete)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", srv.Client())
}

func TestClient_RoundTrip(t *testing.T) {
	store := kvstore.NewMemory()
	client := newClientServer(t, store)
	ctx := context.Background()

	if _, err := client.Get(ctx, "favorites"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := client.Put(ctx, "favorites", `["https://a"]`); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := client.Get(ctx, "favorites")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != `["https://a"]` {
		t.Errorf("expected %q, got %q", `["https://a"]`, got)
	}

	stored, err := store.Get(ctx, "browser-1", "favorites")
	if err != nil || stored != got {
		t.Errorf("expected value under the session namespace, got %q (err %v)", stored, err)
	}

	if err := client.Delete(ctx, "favorites"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := client.Get(ctx, "favorites"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestClient_ServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()
	client := NewClient(srv.URL, srv.Client())

	if _, err := client.Get(context.Background(), "favorites"); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("expected status error from get, got %v", err)
	}
	if err := client.Put(context.Background(), "favorites", "[]"); err == nil {
		t.Error("expected status error from put")
	}
}
