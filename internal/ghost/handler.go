package ghost

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/2beens/repcheck/internal/telemetry/tracing"
	"github.com/2beens/repcheck/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type ghostRegistrar interface {
	Register(ctx context.Context) (string, error)
}

type IDResponse struct {
	GhostID string `json:"ghostId"`
}

type Handler struct {
	registrar ghostRegistrar
}

func NewHandler(registrar ghostRegistrar) *Handler {
	return &Handler{
		registrar: registrar,
	}
}

// SetupRoutes registers the ghost routes, registerMiddlewares only wrap POST /ghost
func (handler *Handler) SetupRoutes(r *mux.Router, registerMiddlewares ...mux.MiddlewareFunc) {
	var register http.Handler = http.HandlerFunc(handler.HandleRegister)
	for i := len(registerMiddlewares) - 1; i >= 0; i-- {
		register = registerMiddlewares[i](register)
	}

	r.Handle("/ghost", register).Methods("POST", "OPTIONS").Name("ghost-register")
	r.HandleFunc("/ghost/me", handler.HandleMe).Methods("GET", "OPTIONS").Name("ghost-me")
}

func (handler *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.ghost.register")
	defer span.End()

	ghostID, err := handler.registrar.Register(ctx)
	if err != nil {
		log.Errorf("failed to register new ghost: %s", err)
		http.Error(w, "error, failed to register", http.StatusInternalServerError)
		return
	}

	writeID(w, ghostID, http.StatusCreated)
}

func (handler *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ghostID, ok := IDFromContext(r.Context())
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	writeID(w, ghostID, http.StatusOK)
}

func writeID(w http.ResponseWriter, ghostID string, statusCode int) {
	respJson, err := json.Marshal(IDResponse{GhostID: ghostID})
	if err != nil {
		log.Errorf("failed to marshal ghost id response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, statusCode)
}
