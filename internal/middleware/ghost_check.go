package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/2beens/repcheck/internal/ghost"
	"github.com/2beens/repcheck/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=ghost_check_mocks_test.go -package=middleware_test

type ghostChecker interface {
	IsKnown(ctx context.Context, ghostID string) (bool, error)
}

type GhostCheckHandler struct {
	checker      ghostChecker
	allowedPaths map[string]bool
}

func NewGhostCheckHandler(checker ghostChecker) *GhostCheckHandler {
	return &GhostCheckHandler{
		checker: checker,
		allowedPaths: map[string]bool{
			"/":        true,
			"/version": true,
			"/myip":    true,
			// new devices get their id here
			"/ghost": true,
		},
	}
}

// GhostCheck lets through only requests naming a registered ghost, and puts
// the ghost id into the request context
func (h *GhostCheckHandler) GhostCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.ghostCheck")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, PUT, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if h.allowedPaths[r.URL.Path] {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			ghostID := r.Header.Get(ghost.HeaderName)
			if ghostID == "" {
				log.Tracef("[missing ghost] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "missing-ghost-id")
				return
			}

			known, err := h.checker.IsKnown(ctx, ghostID)
			if err != nil && !errors.Is(err, ghost.ErrInvalidID) {
				log.Errorf("[failed ghost check] => %s: %s", r.URL.Path, err)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "check-ghost-err")
				span.RecordError(err)
				return
			}
			if !known {
				log.Tracef("[unknown ghost %s] unauthorized => %s", ghostID, r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "unknown-ghost")
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(ghost.ContextWithID(r.Context(), ghostID)))
		})
	}
}
