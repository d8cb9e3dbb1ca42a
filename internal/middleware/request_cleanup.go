package middleware

import (
	"io"
	"net/http"
)

// maxDrainBytes caps how much of an unread body is consumed after the handler
const maxDrainBytes = 256 * 1024

// DrainAndCloseRequest reads what the handler left of the request body and closes it,
// so the connection can be reused
func DrainAndCloseRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			if r.Body == nil {
				return
			}
			_, _ = io.Copy(io.Discard, io.LimitReader(r.Body, maxDrainBytes))
			_ = r.Body.Close()
		})
	}
}
