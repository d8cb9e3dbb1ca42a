package middleware

import (
	"net/http"
	"strings"

	"github.com/2beens/repcheck/internal/ghost"

	log "github.com/sirupsen/logrus"
)

var allowedOrigins = map[string]bool{
	// expo web dev server
	"http://localhost:8081":  true,
	"http://localhost:19006": true,
	"test":                   true,
}

var allowedUserAgentPrefixes = []string{
	"RepCheck/",
	// react native networking on android and ios
	"okhttp/",
	"Expo/",
	"curl/",
	"test-agent",
}

func originAllowed(origin, userAgent string) bool {
	if allowedOrigins[origin] {
		return true
	}
	for _, prefix := range allowedUserAgentPrefixes {
		if strings.HasPrefix(userAgent, prefix) {
			return true
		}
	}
	return false
}

func Cors() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			userAgent := r.Header.Get("User-Agent")

			if !originAllowed(origin, userAgent) {
				log.Warnf("CORS: origin not allowed for path [%s], origin [%s], UA [%s]", r.URL.Path, origin, userAgent)
				w.WriteHeader(http.StatusForbidden)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Headers",
				"Accept, Content-Type, Content-Length, Accept-Encoding, Cache-Control, "+ghost.HeaderName,
			)
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT")

			next.ServeHTTP(w, r)
		})
	}
}
