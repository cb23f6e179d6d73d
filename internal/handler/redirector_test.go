package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedirectHandler(t *testing.T) {
	type want struct {
		statusCode  int
		contentType string
		location    string
		body        string
	}

	tests := []struct {
		name   string
		method string
		setup  func(t *testing.T) (chi.Router, string)
		want   want
	}{
		{
			name:   "positive test",
			method: http.MethodGet,
			setup: func(t *testing.T) (chi.Router, string) {
				router, svc := newTestRouter(t, nil)
				shortURL, err := svc.CreateShortURL(context.Background(), "https://example.com/very/long/path")
				require.NoError(t, err)
				return router, strings.TrimPrefix(shortURL, testBaseURL+"/")
			},
			want: want{
				statusCode: http.StatusFound,
				location:   "https://example.com/very/long/path",
			},
		},
		{
			name:   "negative: non-existent slug",
			method: http.MethodGet,
			setup: func(t *testing.T) (chi.Router, string) {
				router, _ := newTestRouter(t, nil)
				return router, "doesnotexist"
			},
			want: want{
				statusCode:  http.StatusNotFound,
				contentType: "text/plain; charset=utf-8",
				body:        "Not Found\n",
			},
		},
		{
			name:   "negative: store unavailable",
			method: http.MethodGet,
			setup: func(t *testing.T) (chi.Router, string) {
				router, _ := newTestRouter(t, &failingStore{})
				return router, "abc1234"
			},
			want: want{
				statusCode:  http.StatusInternalServerError,
				contentType: "text/plain; charset=utf-8",
				body:        "Internal Server Error\n",
			},
		},
		{
			name:   "negative: wrong method POST",
			method: http.MethodPost,
			setup: func(t *testing.T) (chi.Router, string) {
				router, svc := newTestRouter(t, nil)
				shortURL, err := svc.CreateShortURL(context.Background(), "https://example.com")
				require.NoError(t, err)
				return router, strings.TrimPrefix(shortURL, testBaseURL+"/")
			},
			want: want{
				statusCode:  http.StatusMethodNotAllowed,
				contentType: "text/plain; charset=utf-8",
				body:        "Method Not Allowed\n",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, slug := tt.setup(t)

			request := httptest.NewRequest(tt.method, "/"+slug, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, request)

			result := w.Result()
			defer result.Body.Close()

			assert.Equal(t, tt.want.statusCode, result.StatusCode)

			if tt.want.contentType != "" {
				assert.Equal(t, tt.want.contentType, result.Header.Get("Content-Type"))
			}

			assert.Equal(t, tt.want.location, result.Header.Get("Location"))

			if tt.want.statusCode == http.StatusFound {
				assert.Equal(t, "no-cache", result.Header.Get("Cache-Control"))
			}

			bodyResult, err := io.ReadAll(result.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.want.body, string(bodyResult))
		})
	}
}

func TestRedirectHandler_Idempotent(t *testing.T) {
	router, svc := newTestRouter(t, nil)

	shortURL, err := svc.CreateShortURL(context.Background(), "https://example.com/a")
	require.NoError(t, err)
	slug := strings.TrimPrefix(shortURL, testBaseURL+"/")

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/"+slug, nil))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "https://example.com/a", w.Header().Get("Location"))
	}
}
