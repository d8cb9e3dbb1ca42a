package middleware

import (
	"net/http"
	"time"

	"github.com/2beens/repcheck/pkg"

	log "github.com/sirupsen/logrus"
)

func LogRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			begin := time.Now()
			next.ServeHTTP(w, r)

			clientIP, err := pkg.ReadUserIP(r)
			if err != nil {
				clientIP = "unknown"
			}
			log.WithFields(log.Fields{
				"method": r.Method,
				"path":   r.URL.Path,
				"ip":     clientIP,
				"ua":     r.Header.Get("User-Agent"),
				"took":   time.Since(begin).String(),
			}).Trace(" ====> request")
		})
	}
}
