// Package ticker drives the periodic passive-income credit.
package ticker

import (
	"context"
	"log/slog"
	"time"

	"github.com/coinpit/coinpit/internal/model"
	"github.com/coinpit/coinpit/internal/state"
)

// DefaultInterval is the passive-income period.
const DefaultInterval = time.Second

// RankBroadcaster pushes a refreshed leaderboard to all connections.
type RankBroadcaster interface {
	BroadcastRanks(ctx context.Context)
}

// Ticker credits every player's autoIncome on a fixed period, independent of
// any connection. A failed tick is logged and the next firing proceeds; no
// catch-up is attempted for skipped ticks.
type Ticker struct {
	state    *state.Store
	ranks    RankBroadcaster
	interval time.Duration
	logger   *slog.Logger
}

// New creates the passive-income ticker.
func New(st *state.Store, ranks RankBroadcaster, interval time.Duration, logger *slog.Logger) *Ticker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Ticker{
		state:    st,
		ranks:    ranks,
		interval: interval,
		logger:   logger.With(slog.String("component", "ticker")),
	}
}

// Run fires the ticker until the context is canceled.
func (t *Ticker) Run(ctx context.Context) {
	t.logger.Info("passive income ticker started", slog.Duration("interval", t.interval))
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.tick(ctx)
		case <-ctx.Done():
			t.logger.Info("passive income ticker stopped")
			return
		}
	}
}

// tick runs one credit cycle: read, credit, persist, rank broadcast.
func (t *Ticker) tick(ctx context.Context) {
	credited := false
	err := t.state.Update(ctx, func(doc *model.Document) error {
		for _, p := range doc.Players {
			if p.AutoIncome > 0 {
				p.Coins += p.AutoIncome
				credited = true
			}
		}
		return nil
	})
	if err != nil {
		t.logger.Error("tick failed", slog.Any("error", err))
		return
	}

	if credited {
		t.ranks.BroadcastRanks(ctx)
	}
}
