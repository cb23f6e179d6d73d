package middleware

import (
	"context"
	"net/http"
	"time"
)

// RequestTimeout bounds the request context so store calls give up once d has
// passed. An existing, earlier deadline is kept. d <= 0 disables the middleware.
func RequestTimeout(d time.Duration) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
