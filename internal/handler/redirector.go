package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RedirectHandler answers GET /{slug} with a temporary redirect to the stored URL.
func (h *Handler) RedirectHandler(rw http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		http.Error(rw, "Not Found", http.StatusNotFound)
		return
	}

	originalURL, found, err := h.service.ResolveSlug(r.Context(), slug)
	if err != nil {
		http.Error(rw, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if !found {
		http.Error(rw, "Not Found", http.StatusNotFound)
		return
	}

	rw.Header().Set("Cache-Control", "no-cache")
	rw.Header().Set("Location", originalURL)
	rw.WriteHeader(http.StatusFound)
}
