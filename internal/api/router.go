// Package api assembles the HTTP surface: the websocket endpoint, the icon
// upload collaborator, static icon serving and a health check.
package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/coinpit/coinpit/internal/api/handler"
	"github.com/coinpit/coinpit/internal/middleware"
	"github.com/coinpit/coinpit/internal/services/icon"
	"github.com/coinpit/coinpit/internal/state"
	"github.com/coinpit/coinpit/internal/ws"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	Logger     *slog.Logger
	WSHandler  *ws.Handler
	IconStore  *icon.FSStore
	StateStore *state.Store
}

// NewRouter creates the router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	iconHandler := handler.NewIconHandler(cfg.IconStore, cfg.StateStore, cfg.Logger)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger, middleware.DefaultPanicHandler)

	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	// The persistent bidirectional channel
	r.Handle("/ws", cfg.WSHandler)

	// Icon collaborator: upload plus static serving of stored icons
	r.HandleFunc("/upload-icon", iconHandler.Upload).Methods(http.MethodPost)
	r.PathPrefix("/icons/").Handler(
		http.StripPrefix("/icons/", http.FileServer(http.Dir(cfg.IconStore.Dir()))))

	// Health check endpoint
	r.HandleFunc("/api/v1/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
