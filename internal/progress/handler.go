package progress

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/repcheck/internal/ghost"
	"github.com/2beens/repcheck/internal/telemetry/tracing"
	"github.com/2beens/repcheck/internal/workout"
	"github.com/2beens/repcheck/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=progress_test

type progressService interface {
	Load(ctx context.Context, ghostID string) Snapshot
	UpdateProgress(ctx context.Context, ghostID, exerciseID string, reps int) (Snapshot, error)
	CompleteDailyMission(ctx context.Context, ghostID string) (Snapshot, error)
}

type UpdateProgressRequest struct {
	Reps *int `json:"reps"`
}

type Handler struct {
	service progressService
}

func NewHandler(service progressService) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/progress", handler.HandleGet).Methods("GET", "OPTIONS").Name("progress-get")
	r.HandleFunc("/progress/mission/complete", handler.HandleCompleteMission).Methods("POST", "OPTIONS").Name("progress-mission-complete")
	r.HandleFunc("/progress/{exerciseId}", handler.HandleUpdate).Methods("PUT", "OPTIONS").Name("progress-update")
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.get")
	defer span.End()

	ghostID, ok := ghost.IDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	writeSnapshot(w, handler.service.Load(ctx, ghostID))
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.update")
	defer span.End()

	ghostID, ok := ghost.IDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	exerciseID := mux.Vars(r)["exerciseId"]
	if exerciseID == "" {
		http.Error(w, "error, exercise id empty", http.StatusBadRequest)
		return
	}

	var req UpdateProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("update progress, unmarshal json params: %s", err)
		http.Error(w, "update progress failed", http.StatusBadRequest)
		return
	}
	if req.Reps == nil {
		http.Error(w, "error, reps missing", http.StatusBadRequest)
		return
	}

	snapshot, err := handler.service.UpdateProgress(ctx, ghostID, exerciseID, *req.Reps)
	switch {
	case err == nil:
	case errors.Is(err, ErrInvalidReps), errors.Is(err, ErrInvalidExercise):
		http.Error(w, "error, invalid reps or exercise", http.StatusBadRequest)
		return
	case errors.Is(err, workout.ErrUnknownExercise):
		http.Error(w, "exercise not found", http.StatusNotFound)
		return
	default:
		log.Errorf("failed to save progress of %s for [%s]: %s", ghostID, exerciseID, err)
		http.Error(w, "error, failed to save progress", http.StatusInternalServerError)
		return
	}

	log.Debugf("progress saved: %s [%s] -> %d reps", ghostID, exerciseID, *req.Reps)
	writeSnapshot(w, snapshot)
}

func (handler *Handler) HandleCompleteMission(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.completeMission")
	defer span.End()

	ghostID, ok := ghost.IDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	snapshot, err := handler.service.CompleteDailyMission(ctx, ghostID)
	if errors.Is(err, ErrMissionIncomplete) {
		http.Error(w, "daily mission not complete yet", http.StatusConflict)
		return
	}
	if err != nil {
		log.Errorf("failed to complete mission for %s: %s", ghostID, err)
		http.Error(w, "error, failed to complete mission", http.StatusInternalServerError)
		return
	}

	writeSnapshot(w, snapshot)
}

func writeSnapshot(w http.ResponseWriter, snapshot Snapshot) {
	snapshotJson, err := json.Marshal(snapshot)
	if err != nil {
		log.Errorf("failed to marshal progress snapshot: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, snapshotJson)
}
