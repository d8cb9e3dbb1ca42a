package chamber

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/2beens/repcheck/internal/ghost"
	"github.com/2beens/repcheck/internal/telemetry/tracing"
	"github.com/2beens/repcheck/internal/workout"
	"github.com/2beens/repcheck/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type sessionManager interface {
	Start(ctx context.Context, ghostID, exerciseID string, initialReps int) (Session, error)
	Get(ghostID, sessionID string) (Session, error)
	Finish(ctx context.Context, ghostID, sessionID string) (FinishResult, error)
}

type StartRequest struct {
	CurrentReps int `json:"currentReps"`
}

type Handler struct {
	manager sessionManager
}

func NewHandler(manager sessionManager) *Handler {
	return &Handler{
		manager: manager,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/chamber/{exerciseId}/start", handler.HandleStart).Methods("POST", "OPTIONS").Name("chamber-start")
	r.HandleFunc("/chamber/session/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("chamber-session")
	r.HandleFunc("/chamber/session/{id}/finish", handler.HandleFinish).Methods("POST", "OPTIONS").Name("chamber-finish")
}

func (handler *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.chamber.start")
	defer span.End()

	ghostID, ok := ghost.IDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	// body is optional, no body means starting from 0
	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Errorf("chamber start, unmarshal json params: %s", err)
		http.Error(w, "start session failed", http.StatusBadRequest)
		return
	}

	exerciseID := mux.Vars(r)["exerciseId"]
	session, err := handler.manager.Start(ctx, ghostID, exerciseID, req.CurrentReps)
	switch {
	case err == nil:
	case errors.Is(err, workout.ErrUnknownExercise):
		http.Error(w, "exercise not found", http.StatusNotFound)
		return
	case errors.Is(err, ErrInvalidReps):
		http.Error(w, "error, invalid current reps", http.StatusBadRequest)
		return
	default:
		log.Errorf("failed to start chamber session for %s [%s]: %s", ghostID, exerciseID, err)
		http.Error(w, "error, failed to start session", http.StatusInternalServerError)
		return
	}

	writeJson(w, session, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.chamber.get")
	defer span.End()

	ghostID, ok := ghost.IDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	session, err := handler.manager.Get(ghostID, mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	writeJson(w, session, http.StatusOK)
}

func (handler *Handler) HandleFinish(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.chamber.finish")
	defer span.End()

	ghostID, ok := ghost.IDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	sessionID := mux.Vars(r)["id"]
	result, err := handler.manager.Finish(ctx, ghostID, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("failed to finish chamber session %s for %s: %s", sessionID, ghostID, err)
		http.Error(w, "error, session reps not saved", http.StatusInternalServerError)
		return
	}

	writeJson(w, result, http.StatusOK)
}

func writeJson(w http.ResponseWriter, v any, statusCode int) {
	respJson, err := json.Marshal(v)
	if err != nil {
		log.Errorf("chamber: failed to marshal response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, statusCode)
}
