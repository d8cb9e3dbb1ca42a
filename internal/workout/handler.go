package workout

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/2beens/repcheck/internal/daytime"
	"github.com/2beens/repcheck/internal/ghost"
	"github.com/2beens/repcheck/internal/telemetry/tracing"
	"github.com/2beens/repcheck/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=workout_test

type dayProgress interface {
	DayProgress(ctx context.Context, ghostID string) (progress map[string]int, streak int)
}

type Handler struct {
	plan        *Plan
	dayProgress dayProgress
	clock       daytime.Clock
}

func NewHandler(plan *Plan, dayProgress dayProgress, clock daytime.Clock) *Handler {
	return &Handler{
		plan:        plan,
		dayProgress: dayProgress,
		clock:       clock,
	}
}

func (h *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/workout/today", h.HandleToday).Methods("GET", "OPTIONS").Name("workout-today")
	r.HandleFunc("/workout/exercise/{id}", h.HandleExercise).Methods("GET", "OPTIONS").Name("workout-exercise")
}

func (h *Handler) HandleToday(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.today")
	defer span.End()

	ghostID, ok := ghost.IDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	progress, streak := h.dayProgress.DayProgress(ctx, ghostID)
	lobby := NewLobby(h.plan, progress, streak, h.clock.Now())

	lobbyJson, err := json.Marshal(lobby)
	if err != nil {
		log.Errorf("marshal lobby for %s: %s", ghostID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, lobbyJson)
}

func (h *Handler) HandleExercise(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.exercise")
	defer span.End()

	exerciseID := mux.Vars(r)["id"]
	exercise, ok := h.plan.Exercise(exerciseID)
	if !ok {
		http.Error(w, "exercise not found", http.StatusNotFound)
		return
	}

	exerciseJson, err := json.Marshal(exercise)
	if err != nil {
		log.Errorf("marshal exercise %s: %s", exerciseID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, exerciseJson)
}
