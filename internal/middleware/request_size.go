package middleware

import (
	"net/http"
)

/* RequestSizeMiddleware limits the size of request bodies. The API only
 * accepts small JSON payloads (login, metrics reset), so anything large is
 * rejected outright. */
func RequestSizeMiddleware(maxSize int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxSize)

			next.ServeHTTP(w, r)
		})
	}
}
