package ws

import (
	"context"
	"errors"
	"log/slog"

	"github.com/coinpit/coinpit/internal/game"
	"github.com/coinpit/coinpit/internal/model"
	"github.com/coinpit/coinpit/internal/protocol"
	"github.com/coinpit/coinpit/internal/services/chat"
	"github.com/coinpit/coinpit/internal/services/economy"
	"github.com/coinpit/coinpit/internal/services/identity"
	"github.com/coinpit/coinpit/internal/services/ranking"
	"github.com/coinpit/coinpit/internal/state"
)

// SessionConfig bounds the snapshots a session hands to clients.
type SessionConfig struct {
	// RankLimit is the number of players in a rank broadcast.
	RankLimit int
	// ChatWindow is the number of recent chat entries in the init snapshot.
	ChatWindow int
}

// DefaultSessionConfig returns the default snapshot bounds.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		RankLimit:  ranking.DefaultLimit,
		ChatWindow: 100,
	}
}

// Session routes decoded client messages into the game services and emits
// the resulting events. One Session is shared by all connections; per-player
// consistency comes from the state store's serialization, not from here.
type Session struct {
	state    *state.Store
	registry *game.Registry
	identity *identity.Service
	economy  *economy.Service
	chat     *chat.Service
	hub      *Hub
	cfg      SessionConfig
	logger   *slog.Logger
}

// NewSession creates the shared session dispatcher.
func NewSession(
	st *state.Store,
	registry *game.Registry,
	identitySvc *identity.Service,
	economySvc *economy.Service,
	chatSvc *chat.Service,
	hub *Hub,
	cfg SessionConfig,
	logger *slog.Logger,
) *Session {
	if cfg.RankLimit == 0 {
		cfg.RankLimit = DefaultSessionConfig().RankLimit
	}
	if cfg.ChatWindow == 0 {
		cfg.ChatWindow = DefaultSessionConfig().ChatWindow
	}
	return &Session{
		state:    st,
		registry: registry,
		identity: identitySvc,
		economy:  economySvc,
		chat:     chatSvc,
		hub:      hub,
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "session")),
	}
}

// HandleOpen registers the connection and sends its init snapshot: the shop
// catalog, the current ranks and the recent chat window.
func (s *Session) HandleOpen(ctx context.Context, connID game.ConnID) {
	s.registry.Register(connID)

	var init protocol.Init
	err := s.state.View(ctx, func(doc *model.Document) error {
		init = protocol.NewInit(
			doc.Shop,
			ranking.Top(doc.Players, s.cfg.RankLimit),
			doc.RecentChat(s.cfg.ChatWindow),
		)
		return nil
	})
	if err != nil {
		s.logger.Error("init snapshot failed",
			slog.String("conn", string(connID)),
			slog.Any("error", err))
		return
	}
	s.hub.SendJSON(connID, init)
}

// HandleClose releases the connection's registry entry. If it held a claim,
// a rank broadcast follows since a departure can change standings.
func (s *Session) HandleClose(ctx context.Context, connID game.ConnID) {
	if _, claimed := s.registry.Release(connID); claimed {
		s.BroadcastRanks(ctx)
	}
}

// HandleMessage decodes one inbound frame and dispatches it. Malformed and
// unknown frames are dropped silently to tolerate protocol drift.
func (s *Session) HandleMessage(ctx context.Context, connID game.ConnID, raw []byte) {
	msg, err := protocol.DecodeClient(raw)
	if err != nil {
		return
	}

	switch m := msg.(type) {
	case protocol.SetName:
		s.handleSetName(ctx, connID, m)
	case protocol.Tap:
		s.handleTap(ctx, connID)
	case protocol.Buy:
		s.handleBuy(ctx, connID, m)
	case protocol.Chat:
		s.handleChat(ctx, connID, m)
	}
}

func (s *Session) handleSetName(ctx context.Context, connID game.ConnID, m protocol.SetName) {
	nickname, err := s.identity.Claim(ctx, connID, m.Nickname, m.AdminSecret)
	if err != nil {
		if !isClaimReason(err) {
			s.logger.Error("claim failed",
				slog.String("conn", string(connID)),
				slog.Any("error", err))
		}
		s.hub.SendJSON(connID, protocol.NewSetNameFailure(err))
		return
	}

	s.hub.SendJSON(connID, protocol.NewSetNameOK(nickname))
	s.BroadcastRanks(ctx)
}

func (s *Session) handleTap(ctx context.Context, connID game.ConnID) {
	nickname, claimed := s.registry.Name(connID)
	if !claimed {
		return
	}

	player, err := s.economy.Tap(ctx, nickname)
	if err != nil {
		s.logger.Error("tap failed",
			slog.String("nickname", string(nickname)),
			slog.Any("error", err))
		s.hub.SendJSON(connID, protocol.NewSystemEvent("something went wrong, try again"))
		return
	}

	// Targeted update: only the acting connection needs its own counters.
	s.hub.SendJSON(connID, protocol.NewTapEvent(player))
}

func (s *Session) handleBuy(ctx context.Context, connID game.ConnID, m protocol.Buy) {
	nickname, claimed := s.registry.Name(connID)
	if !claimed {
		return
	}

	if _, err := s.economy.Buy(ctx, nickname, m.ItemID); err != nil {
		if !errors.Is(err, model.ErrUnknownItem) && !errors.Is(err, model.ErrInsufficientFunds) {
			s.logger.Error("buy failed",
				slog.String("nickname", string(nickname)),
				slog.String("item", m.ItemID),
				slog.Any("error", err))
		}
		s.hub.SendJSON(connID, protocol.NewBuyFailure(err))
		return
	}

	s.hub.SendJSON(connID, protocol.NewBuyOK())
	s.BroadcastRanks(ctx)
}

func (s *Session) handleChat(ctx context.Context, connID game.ConnID, m protocol.Chat) {
	nickname, claimed := s.registry.Name(connID)
	if !claimed {
		return
	}

	outcome, err := s.chat.Post(ctx, nickname, m.Text)
	if err != nil {
		s.logger.Error("chat failed",
			slog.String("nickname", string(nickname)),
			slog.Any("error", err))
		s.hub.SendJSON(connID, protocol.NewSystemEvent("something went wrong, try again"))
		return
	}
	if outcome == nil {
		return
	}

	if outcome.Banned != "" {
		// Notify and disconnect the live holder before announcing the ban.
		if holder, ok := s.registry.Holder(outcome.Banned); ok {
			s.hub.Kick(holder, protocol.NewBannedEvent(outcome.Banned))
		}
	}
	if outcome.Notice != "" {
		s.hub.BroadcastJSON(protocol.NewSystemEvent(outcome.Notice))
	}
	if outcome.Entry != nil {
		s.hub.BroadcastJSON(protocol.NewChatEvent(*outcome.Entry))
	}
}

// BroadcastRanks recomputes the leaderboard and fans it out to everyone.
// Called after every state change that can affect standings.
func (s *Session) BroadcastRanks(ctx context.Context) {
	var ranks []protocol.RankEntry
	err := s.state.View(ctx, func(doc *model.Document) error {
		ranks = ranking.Top(doc.Players, s.cfg.RankLimit)
		return nil
	})
	if err != nil {
		s.logger.Error("rank snapshot failed", slog.Any("error", err))
		return
	}
	s.hub.BroadcastJSON(protocol.NewRanksEvent(ranks))
}

func isClaimReason(err error) bool {
	return errors.Is(err, model.ErrNameEmpty) ||
		errors.Is(err, model.ErrAdminAuth) ||
		errors.Is(err, model.ErrNameBanned) ||
		errors.Is(err, model.ErrNameInUse)
}
