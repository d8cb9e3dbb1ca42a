package theme

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/2beens/repcheck/internal/ghost"
	"github.com/2beens/repcheck/internal/telemetry/tracing"
	"github.com/2beens/repcheck/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type themeOwner interface {
	Mode(ctx context.Context, ghostID string) Theme
	Toggle(ctx context.Context, ghostID string) (Theme, error)
	Subscribe(ghostID string) (<-chan Theme, func())
}

type Handler struct {
	owner themeOwner
}

func NewHandler(owner themeOwner) *Handler {
	return &Handler{
		owner: owner,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/settings/theme", handler.HandleGet).Methods("GET", "OPTIONS").Name("theme-get")
	r.HandleFunc("/settings/theme/toggle", handler.HandleToggle).Methods("POST", "OPTIONS").Name("theme-toggle")
	r.HandleFunc("/settings/theme/events", handler.HandleEvents).Methods("GET").Name("theme-events")
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.theme.get")
	defer span.End()

	ghostID, ok := ghost.IDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	writeTheme(w, handler.owner.Mode(ctx, ghostID))
}

func (handler *Handler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.theme.toggle")
	defer span.End()

	ghostID, ok := ghost.IDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	theme, err := handler.owner.Toggle(ctx, ghostID)
	if err != nil {
		log.Errorf("failed to toggle theme for %s: %s", ghostID, err)
		http.Error(w, "error, failed to toggle theme", http.StatusInternalServerError)
		return
	}

	writeTheme(w, theme)
}

// HandleEvents streams the current theme and then every change, as server-sent events
func (handler *Handler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ghostID, ok := ghost.IDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	updates, unsubscribe := handler.owner.Subscribe(ghostID)
	defer unsubscribe()

	w.Header().Set("Content-Type", pkg.ContentType.EventStream)
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, handler.owner.Mode(ctx, ghostID)); err != nil {
		log.Debugf("theme events for %s: %s", ghostID, err)
		return
	}
	flusher.Flush()

	for {
		select {
		case <-ctx.Done():
			return
		case theme, ok := <-updates:
			if !ok {
				return
			}
			if err := writeEvent(w, theme); err != nil {
				log.Debugf("theme events for %s: %s", ghostID, err)
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, theme Theme) error {
	themeJson, err := json.Marshal(theme)
	if err != nil {
		return fmt.Errorf("marshal theme: %w", err)
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", themeJson); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}

func writeTheme(w http.ResponseWriter, theme Theme) {
	themeJson, err := json.Marshal(theme)
	if err != nil {
		log.Errorf("failed to marshal theme: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, themeJson)
}
