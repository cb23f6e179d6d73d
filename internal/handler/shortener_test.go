package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/slug-shortener/internal/models"
)

func TestShortenHandler(t *testing.T) {
	type want struct {
		statusCode  int
		contentType string
		message     string
		checkResult bool
	}

	tests := []struct {
		name   string
		method string
		body   string
		want   want
	}{
		{
			name:   "positive test",
			method: http.MethodPost,
			body:   `{"url":"https://example.com/very/long/path"}`,
			want: want{
				statusCode:  http.StatusOK,
				contentType: "application/json",
				checkResult: true,
			},
		},
		{
			name:   "positive: plain http",
			method: http.MethodPost,
			body:   `{"url":"http://example.com"}`,
			want: want{
				statusCode:  http.StatusOK,
				contentType: "application/json",
				checkResult: true,
			},
		},
		{
			name:   "negative: empty URL",
			method: http.MethodPost,
			body:   `{"url":""}`,
			want: want{
				statusCode:  http.StatusBadRequest,
				contentType: "application/json",
				message:     msgInvalidURL,
			},
		},
		{
			name:   "negative: not a URL",
			method: http.MethodPost,
			body:   `{"url":"not-a-url"}`,
			want: want{
				statusCode:  http.StatusBadRequest,
				contentType: "application/json",
				message:     msgInvalidURL,
			},
		},
		{
			name:   "negative: URL is a number",
			method: http.MethodPost,
			body:   `{"url":42}`,
			want: want{
				statusCode:  http.StatusBadRequest,
				contentType: "application/json",
				message:     msgInvalidURL,
			},
		},
		{
			name:   "negative: missing URL",
			method: http.MethodPost,
			body:   `{}`,
			want: want{
				statusCode:  http.StatusBadRequest,
				contentType: "application/json",
				message:     msgInvalidURL,
			},
		},
		{
			name:   "negative: empty body",
			method: http.MethodPost,
			body:   ``,
			want: want{
				statusCode:  http.StatusBadRequest,
				contentType: "application/json",
				message:     msgInvalidURL,
			},
		},
		{
			name:   "negative: invalid JSON",
			method: http.MethodPost,
			body:   `{"url":"https://example.com",}`,
			want: want{
				statusCode:  http.StatusBadRequest,
				contentType: "application/json",
				message:     msgInvalidBody,
			},
		},
		{
			name:   "negative: wrong method GET",
			method: http.MethodGet,
			body:   ``,
			want: want{
				statusCode:  http.StatusMethodNotAllowed,
				contentType: "application/json",
				message:     msgMethodNotAllowed,
			},
		},
		{
			name:   "negative: wrong method PUT",
			method: http.MethodPut,
			body:   `{"url":"https://example.com"}`,
			want: want{
				statusCode:  http.StatusMethodNotAllowed,
				contentType: "application/json",
				message:     msgMethodNotAllowed,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := newTestRouter(t, nil)

			req := httptest.NewRequest(tt.method, "/shorten", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			result := w.Result()
			defer result.Body.Close()

			assert.Equal(t, tt.want.statusCode, result.StatusCode)
			assert.Equal(t, tt.want.contentType, result.Header.Get("Content-Type"))

			if tt.want.checkResult {
				var resp models.ShortenResponse
				require.NoError(t, json.NewDecoder(result.Body).Decode(&resp))
				require.True(t, strings.HasPrefix(resp.ShortURL, testBaseURL+"/"))
				assert.Regexp(t, `^[a-zA-Z0-9]{7}$`, strings.TrimPrefix(resp.ShortURL, testBaseURL+"/"))
				return
			}

			var resp models.ErrorResponse
			require.NoError(t, json.NewDecoder(result.Body).Decode(&resp))
			assert.Equal(t, tt.want.message, resp.Message)
		})
	}
}

func TestShortenHandler_StoreFailure(t *testing.T) {
	store := &failingStore{}
	router, _ := newTestRouter(t, store)

	req := httptest.NewRequest(http.MethodPost, "/shorten", strings.NewReader(`{"url":"https://example.com"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, msgInternalError, resp.Message)
	assert.NotContains(t, w.Body.String(), errStoreDown.Error())
}

func TestShortenHandler_InvalidURLSkipsStore(t *testing.T) {
	store := &failingStore{}
	router, _ := newTestRouter(t, store)

	for _, body := range []string{`{"url":""}`, `{"url":"not-a-url"}`, `{"url":42}`} {
		req := httptest.NewRequest(http.MethodPost, "/shorten", strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}

	assert.Zero(t, store.calls)
}
