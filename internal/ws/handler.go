package ws

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/coinpit/coinpit/internal/game"
)

// HandlerConfig holds configuration for the websocket endpoint.
type HandlerConfig struct {
	// AllowedOrigins restricts the Origin header of upgrade requests.
	// A single "*" entry allows any origin.
	AllowedOrigins []string
	// MessageRate is the per-connection inbound message budget.
	MessageRate rate.Limit
	// MessageBurst is the per-connection burst allowance.
	MessageBurst int
}

// DefaultHandlerConfig returns the default websocket endpoint settings.
func DefaultHandlerConfig() HandlerConfig {
	return HandlerConfig{
		AllowedOrigins: []string{"*"},
		MessageRate:    50,
		MessageBurst:   100,
	}
}

// Handler upgrades HTTP requests to websocket sessions.
type Handler struct {
	hub      *Hub
	session  *Session
	cfg      HandlerConfig
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates the websocket endpoint handler.
func NewHandler(hub *Hub, session *Session, cfg HandlerConfig, logger *slog.Logger) *Handler {
	if cfg.MessageRate == 0 {
		cfg.MessageRate = DefaultHandlerConfig().MessageRate
	}
	if cfg.MessageBurst == 0 {
		cfg.MessageBurst = DefaultHandlerConfig().MessageBurst
	}

	h := &Handler{
		hub:     hub,
		session: session,
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "ws-handler")),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// ServeHTTP upgrades the request and starts the connection's pumps.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", slog.Any("error", err))
		return
	}

	connID := game.ConnID(uuid.NewString())
	limiter := rate.NewLimiter(h.cfg.MessageRate, h.cfg.MessageBurst)
	client := NewClient(connID, h.hub, h.session, conn, limiter, h.logger)

	h.hub.Register(client)

	go client.WritePump()

	// The request context dies once the connection is hijacked, so session
	// work runs against the background context for the socket's lifetime.
	ctx := context.Background()

	// Init snapshot goes out before any client message is processed.
	h.session.HandleOpen(ctx, connID)

	go client.ReadPump(ctx)
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.cfg.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}
