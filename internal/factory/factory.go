// Package factory wires the application components together.
package factory

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/coinpit/coinpit/internal/config"
	"github.com/coinpit/coinpit/internal/dependencies/clock"
	"github.com/coinpit/coinpit/internal/game"
	"github.com/coinpit/coinpit/internal/services/chat"
	"github.com/coinpit/coinpit/internal/services/economy"
	"github.com/coinpit/coinpit/internal/services/icon"
	"github.com/coinpit/coinpit/internal/services/identity"
	"github.com/coinpit/coinpit/internal/state"
	"github.com/coinpit/coinpit/internal/storage"
	"github.com/coinpit/coinpit/internal/storage/memory"
	redisstorage "github.com/coinpit/coinpit/internal/storage/redis"
	sqlitestorage "github.com/coinpit/coinpit/internal/storage/sqlite"
	"github.com/coinpit/coinpit/internal/ticker"
	"github.com/coinpit/coinpit/internal/ws"
)

// App contains all wired application components
type App struct {
	// Storage
	Backend storage.Backend
	State   *state.Store

	// Live session state
	Registry *game.Registry
	Hub      *ws.Hub
	Session  *ws.Session

	// External dependencies
	Clock clock.Clock

	// Services
	IdentityService *identity.Service
	EconomyService  *economy.Service
	ChatService     *chat.Service
	IconStore       *icon.FSStore

	// Background work
	Ticker *ticker.Ticker

	// Transport
	WSHandler *ws.Handler
}

// New creates a new application with all dependencies wired from config.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	backend, err := newBackend(cfg)
	if err != nil {
		return nil, err
	}

	clk := clock.New()
	return newWithDependencies(backend, clk, cfg, logger)
}

// NewWithBackend wires an App over an existing backend (useful for testing).
func NewWithBackend(backend storage.Backend, clk clock.Clock, cfg *config.Config, logger *slog.Logger) (*App, error) {
	return newWithDependencies(backend, clk, cfg, logger)
}

func newBackend(cfg *config.Config) (storage.Backend, error) {
	switch cfg.StorageType {
	case config.StorageTypeMemory:
		return memory.New(), nil
	case config.StorageTypeSQLite:
		return sqlitestorage.Open(cfg.SQLitePath)
	case config.StorageTypeRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		return redisstorage.New(redisCfg)
	default:
		return nil, fmt.Errorf("invalid STORAGE_TYPE %q: must be memory, sqlite or redis", cfg.StorageType)
	}
}

func newWithDependencies(backend storage.Backend, clk clock.Clock, cfg *config.Config, logger *slog.Logger) (*App, error) {
	st := state.New(backend, logger)
	registry := game.NewRegistry()

	identitySvc, err := identity.New(st, registry, identity.Config{
		AdminName:   cfg.AdminName,
		AdminSecret: cfg.AdminSecret,
	}, logger)
	if err != nil {
		return nil, err
	}
	economySvc := economy.New(st, logger)
	chatSvc := chat.New(st, identitySvc, clk, logger)

	iconStore, err := icon.NewFSStore(cfg.IconDir, "/icons/", logger)
	if err != nil {
		return nil, err
	}

	hub := ws.NewHub(logger)
	session := ws.NewSession(st, registry, identitySvc, economySvc, chatSvc, hub, ws.SessionConfig{
		RankLimit:  cfg.RankLimit,
		ChatWindow: cfg.ChatWindow,
	}, logger)

	wsHandler := ws.NewHandler(hub, session, ws.HandlerConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		MessageRate:    cfg.MessageRate,
		MessageBurst:   cfg.MessageBurst,
	}, logger)

	incomeTicker := ticker.New(st, session, cfg.TickInterval, logger)

	return &App{
		Backend:         backend,
		State:           st,
		Registry:        registry,
		Hub:             hub,
		Session:         session,
		Clock:           clk,
		IdentityService: identitySvc,
		EconomyService:  economySvc,
		ChatService:     chatSvc,
		IconStore:       iconStore,
		Ticker:          incomeTicker,
		WSHandler:       wsHandler,
	}, nil
}
