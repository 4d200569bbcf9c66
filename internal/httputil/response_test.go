package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   any
		want   string
	}{
		{"object", http.StatusOK, map[string]string{"status": "ok"}, `{"status":"ok"}`},
		{"slice", http.StatusOK, []string{"480p", "best"}, `["480p","best"]`},
		{"created", http.StatusCreated, struct {
			Title string `json:"title"`
		}{"Harbour Cam"}, `{"title":"Harbour Cam"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteJSON(rec, tt.status, tt.body)

			if rec.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected Content-Type application/json, got %q", ct)
			}
			if got := strings.TrimSpace(rec.Body.String()); got != tt.want {
				t.Errorf("expected body %s, got %s", tt.want, got)
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		status  int
		message string
	}{
		{http.StatusBadRequest, "Missing 'url' parameter"},
		{http.StatusNotFound, "No playable streams found"},
		{http.StatusTooManyRequests, "too many requests"},
		{http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		WriteError(rec, tt.status, tt.message)

		if rec.Code != tt.status {
			t.Errorf("expected status %d, got %d", tt.status, rec.Code)
		}
		var got ErrorBody
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if diff := cmp.Diff(ErrorBody{Error: tt.message}, got); diff != "" {
			t.Errorf("error body mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Value string `json:"value"`
	}

	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"value":"[]"}`))
	if err := DecodeJSON(httptest.NewRecorder(), req, 1024, &v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Value != "[]" {
		t.Errorf("expected %q, got %q", "[]", v.Value)
	}

	req = httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"value":`))
	if err := DecodeJSON(httptest.NewRecorder(), req, 1024, &v); err == nil || errors.Is(err, ErrBodyTooLarge) {
		t.Errorf("expected decode error, got %v", err)
	}

	req = httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"value":"`+strings.Repeat("x", 64)+`"}`))
	if err := DecodeJSON(httptest.NewRecorder(), req, 16, &v); !errors.Is(err, ErrBodyTooLarge) {
		t.Errorf("expected ErrBodyTooLarge, got %v", err)
	}
}
