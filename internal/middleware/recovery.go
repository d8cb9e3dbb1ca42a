package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/2beens/repcheck/internal/ghost"
	"github.com/2beens/repcheck/internal/telemetry/metrics"

	"github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
)

// PanicRecovery turns handler panics into a 500, and reports them to sentry (when set up)
func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(respWriter http.ResponseWriter, req *http.Request) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				// client went away mid stream, net/http handles this one itself
				if err, ok := r.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(r)
				}

				ghostID := req.Header.Get(ghost.HeaderName)
				log.WithField("ghost", ghostID).
					Errorf("http: panic serving %s %s: %v\n%s", req.Method, req.URL.Path, r, debug.Stack())
				if metricsManager != nil {
					metricsManager.CounterHandleRequestPanic.Inc()
				}

				hub := sentry.CurrentHub().Clone()
				hub.ConfigureScope(func(scope *sentry.Scope) {
					scope.SetRequest(req)
					scope.SetTag("ghost", ghostID)
				})
				hub.Recover(r)

				http.Error(respWriter, "internal server error", http.StatusInternalServerError)
			}()

			next.ServeHTTP(respWriter, req)
		})
	}
}
