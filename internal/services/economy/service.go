// Package economy applies tap and purchase mutations to player records.
package economy

import (
	"context"
	"log/slog"

	"github.com/coinpit/coinpit/internal/model"
	"github.com/coinpit/coinpit/internal/state"
)

// Service mutates player balances through the serialized state store.
type Service struct {
	state  *state.Store
	logger *slog.Logger
}

// New creates the economy service.
func New(st *state.Store, logger *slog.Logger) *Service {
	return &Service{
		state:  st,
		logger: logger.With(slog.String("component", "economy")),
	}
}

// Tap credits one tap: coins += tapValue, taps += 1. It returns a snapshot of
// the player's updated record.
func (s *Service) Tap(ctx context.Context, nickname model.Nickname) (*model.Player, error) {
	var snapshot model.Player
	err := s.state.Update(ctx, func(doc *model.Document) error {
		player := doc.FindPlayer(nickname)
		if player == nil {
			return model.ErrPlayerNotFound
		}
		player.Coins += player.TapValue
		player.Taps++
		snapshot = *player
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// Buy purchases the shop item with the given id. It fails with
// model.ErrUnknownItem for an absent id and model.ErrInsufficientFunds when
// the player cannot afford it; on success the price is deducted and the
// item's tap or auto effect applied exactly once.
func (s *Service) Buy(ctx context.Context, nickname model.Nickname, itemID string) (*model.Player, error) {
	var snapshot model.Player
	err := s.state.Update(ctx, func(doc *model.Document) error {
		player := doc.FindPlayer(nickname)
		if player == nil {
			return model.ErrPlayerNotFound
		}
		item := doc.FindItem(itemID)
		if item == nil {
			return model.ErrUnknownItem
		}
		if player.Coins < item.Price {
			return model.ErrInsufficientFunds
		}

		player.Coins -= item.Price
		switch item.Kind {
		case model.ItemKindTap:
			player.TapValue += item.Value
		case model.ItemKindAuto:
			player.AutoIncome += item.Value
		}
		snapshot = *player
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("item purchased",
		slog.String("nickname", string(nickname)),
		slog.String("item", itemID))
	return &snapshot, nil
}
