package resolve

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/spherecast/spherecast/internal/httputil"
	"github.com/spherecast/spherecast/internal/stream"
	"github.com/spherecast/spherecast/internal/validate"
)

type Resolver interface {
	Resolve(ctx context.Context, source string) (*stream.Response, error)
}

type Handler struct {
	resolver Resolver
}

func NewHandler(resolver Resolver) *Handler {
	return &Handler{resolver: resolver}
}

// Resolve serves GET /api/resolve?url=...
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("url")
	if msg := validate.SourceURL(source); msg != "" {
		httputil.WriteError(w, http.StatusBadRequest, msg)
		return
	}

	resp, err := h.resolver.Resolve(r.Context(), source)
	if err != nil {
		var extractErr *ExtractionError
		switch {
		case errors.Is(err, ErrMissingURL):
			httputil.WriteError(w, http.StatusBadRequest, "Missing 'url' parameter")
		case errors.Is(err, ErrNoStreams):
			httputil.WriteError(w, http.StatusNotFound, "No playable streams found")
		case errors.As(err, &extractErr):
			httputil.WriteError(w, http.StatusUnprocessableEntity, "Extraction failed: "+extractErr.Err.Error())
		default:
			slog.Error("resolve failed", "source", source, "error", err)
			httputil.WriteError(w, http.StatusInternalServerError, "failed to resolve stream")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}
