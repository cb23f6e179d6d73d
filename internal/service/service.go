package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mmeshcher/slug-shortener/internal/models"
	"github.com/mmeshcher/slug-shortener/internal/repository"
)

var (
	ErrInvalidURL    = errors.New("invalid url")
	ErrSlugExhausted = errors.New("failed to generate unique slug")
)

// LinkStore is the persistence the service depends on. Create must report
// repository.ErrSlugExists when the slug is already taken at write time.
type LinkStore interface {
	FindBySlug(ctx context.Context, slug string) (models.Link, bool, error)
	Create(ctx context.Context, slug, originalURL string) (models.Link, error)
	Ping(ctx context.Context) error
	Close() error
}

type Option func(*ShortenerService)

func WithSlugLength(n int) Option {
	return func(s *ShortenerService) {
		s.slugLength = n
	}
}

func WithMaxAttempts(n int) Option {
	return func(s *ShortenerService) {
		s.maxAttempts = n
	}
}

func WithSlugGenerator(g SlugGenerator) Option {
	return func(s *ShortenerService) {
		s.newSlug = g
	}
}

type ShortenerService struct {
	store       LinkStore
	baseURL     string
	slugLength  int
	maxAttempts int
	newSlug     SlugGenerator
	validate    *validator.Validate
	logger      *zap.Logger
}

func NewShortenerService(store LinkStore, baseURL string, logger *zap.Logger, opts ...Option) *ShortenerService {
	s := &ShortenerService{
		store:       store,
		baseURL:     baseURL,
		slugLength:  defaultSlugLength,
		maxAttempts: defaultMaxAttempts,
		newSlug:     GenerateSlug,
		validate:    validator.New(),
		logger:      logger,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// CreateShortURL persists originalURL under a freshly drawn slug and returns
// the composed short URL. A candidate is discarded when the lookup finds it or
// when the store rejects it as a duplicate on insert; after maxAttempts
// discarded candidates ErrSlugExhausted is returned.
func (s *ShortenerService) CreateShortURL(ctx context.Context, originalURL string) (string, error) {
	if err := s.validateURL(originalURL); err != nil {
		s.logger.Warn("Invalid URL provided", zap.String("url", originalURL), zap.Error(err))
		return "", err
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("create short url: %w", err)
		}

		slug, err := s.newSlug(s.slugLength)
		if err != nil {
			return "", fmt.Errorf("generate slug: %w", err)
		}

		if _, reserved := reservedSlugs[slug]; reserved {
			continue
		}

		_, exists, err := s.store.FindBySlug(ctx, slug)
		if err != nil {
			s.logger.Error("Failed to check slug", zap.String("slug", slug), zap.Error(err))
			return "", fmt.Errorf("check slug: %w", err)
		}
		if exists {
			s.logger.Debug("Slug collision on lookup",
				zap.String("slug", slug),
				zap.Int("attempt", attempt))
			continue
		}

		link, err := s.store.Create(ctx, slug, originalURL)
		if errors.Is(err, repository.ErrSlugExists) {
			s.logger.Debug("Slug collision on insert",
				zap.String("slug", slug),
				zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			s.logger.Error("Failed to save link", zap.String("slug", slug), zap.Error(err))
			return "", fmt.Errorf("save link: %w", err)
		}

		return s.composeShortURL(link.Slug)
	}

	s.logger.Error("Failed to generate unique slug after max attempts",
		zap.Int("attempts", s.maxAttempts))
	return "", ErrSlugExhausted
}

// ResolveSlug looks the slug up once. A miss is reported through the boolean,
// not as an error; store failures are returned as errors.
func (s *ShortenerService) ResolveSlug(ctx context.Context, slug string) (string, bool, error) {
	link, found, err := s.store.FindBySlug(ctx, slug)
	if err != nil {
		s.logger.Error("Failed to resolve slug", zap.String("slug", slug), zap.Error(err))
		return "", false, fmt.Errorf("resolve slug: %w", err)
	}

	if !found {
		return "", false, nil
	}

	return link.URL, true, nil
}

func (s *ShortenerService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *ShortenerService) Close() error {
	if err := s.store.Close(); err != nil {
		return fmt.Errorf("close link store: %w", err)
	}
	s.logger.Info("Link store closed")
	return nil
}

func (s *ShortenerService) validateURL(originalURL string) error {
	if err := s.validate.Var(originalURL, "required,startswith=http"); err != nil {
		return ErrInvalidURL
	}
	return nil
}

func (s *ShortenerService) composeShortURL(slug string) (string, error) {
	shortURL, err := url.JoinPath(s.baseURL, slug)
	if err != nil {
		return "", fmt.Errorf("compose short url: %w", err)
	}
	return shortURL, nil
}
