package kvstore

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/spherecast/spherecast/internal/httputil"
	"github.com/spherecast/spherecast/internal/session"
	"github.com/spherecast/spherecast/internal/validate"
)

type valueBody struct {
	Value string `json:"value"`
}

// Handler serves /api/storage/{key} for the session's client.
type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	clientID, key, ok := h.scope(w, r)
	if !ok {
		return
	}

	value, err := h.store.Get(r.Context(), clientID, key)
	if errors.Is(err, ErrNotFound) {
		httputil.WriteError(w, http.StatusNotFound, "key not found")
		return
	}
	if err != nil {
		slog.Error("storage get failed", "key", key, "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to read value")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, valueBody{Value: value})
}

func (h *Handler) Put(w http.ResponseWriter, r *http.Request) {
	clientID, key, ok := h.scope(w, r)
	if !ok {
		return
	}

	var body valueBody
	err := httputil.DecodeJSON(w, r, MaxValueBytes+1024, &body)
	if errors.Is(err, httputil.ErrBodyTooLarge) {
		httputil.WriteError(w, http.StatusRequestEntityTooLarge, "value too large")
		return
	}
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validate.StorageValue(body.Value); msg != "" {
		httputil.WriteError(w, http.StatusRequestEntityTooLarge, msg)
		return
	}

	if err := h.store.Set(r.Context(), clientID, key, body.Value); err != nil {
		slog.Error("storage set failed", "key", key, "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to store value")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	clientID, key, ok := h.scope(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), clientID, key); err != nil {
		slog.Error("storage delete failed", "key", key, "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to delete value")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) scope(w http.ResponseWriter, r *http.Request) (clientID, key string, ok bool) {
	clientID = session.ClientIDFromContext(r.Context())
	if clientID == "" {
		httputil.WriteError(w, http.StatusUnauthorized, "missing client session")
		return "", "", false
	}
	key = chi.URLParam(r, "key")
	if msg := validate.StorageKey(key); msg != "" {
		httputil.WriteError(w, http.StatusBadRequest, msg)
		return "", "", false
	}
	if !ValidKey(key) {
		httputil.WriteError(w, http.StatusBadRequest, "invalid key")
		return "", "", false
	}
	return clientID, key, true
}
