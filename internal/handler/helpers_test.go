package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mmeshcher/slug-shortener/internal/models"
	"github.com/mmeshcher/slug-shortener/internal/repository"
	"github.com/mmeshcher/slug-shortener/internal/service"
)

const testBaseURL = "http://localhost:8080"

var errStoreDown = errors.New("store unavailable")

// failingStore answers every call with errStoreDown and counts calls.
type failingStore struct {
	calls int
}

func (f *failingStore) FindBySlug(context.Context, string) (models.Link, bool, error) {
	f.calls++
	return models.Link{}, false, errStoreDown
}

func (f *failingStore) Create(context.Context, string, string) (models.Link, error) {
	f.calls++
	return models.Link{}, errStoreDown
}

func (f *failingStore) Ping(context.Context) error {
	f.calls++
	return errStoreDown
}

func (f *failingStore) Close() error {
	return nil
}

func newTestRouter(t *testing.T, store service.LinkStore) (chi.Router, *service.ShortenerService) {
	t.Helper()

	logger := zap.NewNop()
	if store == nil {
		repo, err := repository.NewMemoryRepository("", logger)
		require.NoError(t, err)
		store = repo
	}

	svc := service.NewShortenerService(store, testBaseURL, logger)
	h := NewHandler(svc, logger)

	return h.SetupRouter(), svc
}

func noRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
