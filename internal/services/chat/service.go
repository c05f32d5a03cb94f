// Package chat appends chat entries and interprets admin moderation commands.
package chat

import (
	"context"
	"log/slog"
	"strings"

	"github.com/coinpit/coinpit/internal/dependencies/clock"
	"github.com/coinpit/coinpit/internal/model"
	"github.com/coinpit/coinpit/internal/state"
)

const commandPrefix = "/"

// AdminChecker decides whether a nickname is the reserved admin identity.
type AdminChecker interface {
	IsAdmin(nickname model.Nickname) bool
}

// Outcome describes what the caller should deliver after a chat post.
// Exactly one of Entry or Notice is set for a non-empty post; Banned is set
// alongside Notice when a ban command asks for a forced disconnect.
type Outcome struct {
	// Entry is an ordinary chat entry to broadcast.
	Entry *model.ChatEntry
	// Notice is a system notice to broadcast.
	Notice string
	// Banned is the nickname whose live connection, if any, must be
	// notified and disconnected.
	Banned model.Nickname
	// Unbanned is the nickname removed from the ban list.
	Unbanned model.Nickname
}

// Service handles chat posts and admin slash commands.
type Service struct {
	state  *state.Store
	admin  AdminChecker
	clock  clock.Clock
	logger *slog.Logger
}

// New creates the chat service.
func New(st *state.Store, admin AdminChecker, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		state:  st,
		admin:  admin,
		clock:  clk,
		logger: logger.With(slog.String("component", "chat")),
	}
}

// Post processes a chat line from the given player. Empty text is a silent
// no-op (nil outcome). Admin slash commands mutate the ban list; anything
// else, admin or not, is appended to the chat history with a snapshot of the
// sender's current icon.
func (s *Service) Post(ctx context.Context, nickname model.Nickname, text string) (*Outcome, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	if s.admin.IsAdmin(nickname) && strings.HasPrefix(text, commandPrefix) {
		if outcome, handled, err := s.runCommand(ctx, text); handled {
			return outcome, err
		}
		// Unrecognized command, fall through to ordinary chat.
	}

	entry := model.ChatEntry{
		Nickname:  nickname,
		Text:      text,
		Timestamp: s.clock.Now(),
	}
	err := s.state.Update(ctx, func(doc *model.Document) error {
		if player := doc.FindPlayer(nickname); player != nil {
			entry.IconRef = player.IconRef
		}
		doc.Chat = append(doc.Chat, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Outcome{Entry: &entry}, nil
}

// runCommand parses and executes an admin slash command. handled is false
// when the command is not recognized, in which case the text is treated as
// ordinary chat.
func (s *Service) runCommand(ctx context.Context, text string) (*Outcome, bool, error) {
	fields := strings.Fields(text)
	cmd := strings.TrimPrefix(fields[0], commandPrefix)
	if len(fields) < 2 {
		return nil, false, nil
	}
	target := model.Nickname(fields[1])

	switch cmd {
	case "ban":
		err := s.state.Update(ctx, func(doc *model.Document) error {
			doc.Ban(target)
			return nil
		})
		if err != nil {
			return nil, true, err
		}
		s.logger.Info("player banned", slog.String("target", string(target)))
		return &Outcome{
			Notice: string(target) + " is banned",
			Banned: target,
		}, true, nil

	case "unban":
		err := s.state.Update(ctx, func(doc *model.Document) error {
			doc.Unban(target)
			return nil
		})
		if err != nil {
			return nil, true, err
		}
		s.logger.Info("player unbanned", slog.String("target", string(target)))
		return &Outcome{
			Notice:   string(target) + " is unbanned",
			Unbanned: target,
		}, true, nil

	default:
		return nil, false, nil
	}
}
