package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/typerace/typerace-go/internal/api/apierr"
	"github.com/typerace/typerace-go/internal/api/response"
	"github.com/typerace/typerace-go/internal/middleware"
	"github.com/typerace/typerace-go/internal/model"
	"github.com/typerace/typerace-go/internal/services/registry"
	"github.com/typerace/typerace-go/internal/ws"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	Logger   *slog.Logger
	Registry *registry.Registry
	Gateway  *ws.Gateway
}

// NewRouter creates the HTTP router: the WebSocket command endpoint plus a
// small read-only REST surface for health checks and room inspection.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	recoveryMiddleware := middleware.Recovery(cfg.Logger, func(w http.ResponseWriter, _ *http.Request, _ any) {
		apierr.WriteError(w, apierr.NewInvalidRequestError("Internal server error"))
	})
	loggingMiddleware := middleware.Logging(cfg.Logger)

	r.Handle("/ws", cfg.Gateway).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{id}", roomHandler(cfg.Registry)).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// roomHandler returns a read-only snapshot of a live room
func roomHandler(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		snapshot, err := reg.GetRoom(model.RoomID(id))
		if err != nil {
			apierr.WriteError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, snapshot)
	}
}
