package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/mmeshcher/slug-shortener/internal/models"
	"github.com/mmeshcher/slug-shortener/internal/service"
)

const (
	msgMethodNotAllowed = "Method not allowed"
	msgInvalidURL       = "Invalid URL: expected a string starting with http"
	msgInvalidBody      = "Invalid request body"
	msgInternalError    = "Internal server error"
)

// ShortenHandler serves POST /shorten with a JSON body {"url": "..."}.
func (h *Handler) ShortenHandler(rw http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		rw.Header().Set("Allow", http.MethodPost)
		writeError(rw, r, http.StatusMethodNotAllowed, msgMethodNotAllowed)
		return
	}

	var req models.ShortenRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &typeErr):
			writeError(rw, r, http.StatusBadRequest, msgInvalidURL)
		case errors.Is(err, io.EOF):
			writeError(rw, r, http.StatusBadRequest, msgInvalidURL)
		default:
			writeError(rw, r, http.StatusBadRequest, msgInvalidBody)
		}
		return
	}

	shortURL, err := h.service.CreateShortURL(r.Context(), req.URL)
	if err != nil {
		if errors.Is(err, service.ErrInvalidURL) {
			writeError(rw, r, http.StatusBadRequest, msgInvalidURL)
			return
		}

		h.logger.Error("Failed to create short URL", zap.String("url", req.URL), zap.Error(err))
		writeError(rw, r, http.StatusInternalServerError, msgInternalError)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(rw, r, models.ShortenResponse{ShortURL: shortURL})
}

func writeError(rw http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(rw, r, models.ErrorResponse{Message: message})
}
