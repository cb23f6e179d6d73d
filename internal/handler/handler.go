package handler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Shortener is the part of the service the HTTP layer drives.
type Shortener interface {
	CreateShortURL(ctx context.Context, originalURL string) (string, error)
	ResolveSlug(ctx context.Context, slug string) (string, bool, error)
	Ping(ctx context.Context) error
}

type Option func(*Handler)

func WithRequestTimeout(d time.Duration) Option {
	return func(h *Handler) {
		h.requestTimeout = d
	}
}

func WithAllowedOrigins(origins []string) Option {
	return func(h *Handler) {
		h.allowedOrigins = origins
	}
}

type Handler struct {
	service        Shortener
	logger         *zap.Logger
	requestTimeout time.Duration
	allowedOrigins []string
}

func NewHandler(service Shortener, logger *zap.Logger, opts ...Option) *Handler {
	h := &Handler{
		service:        service,
		logger:         logger,
		allowedOrigins: []string{"*"},
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}
