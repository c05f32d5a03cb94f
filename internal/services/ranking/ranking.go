// Package ranking computes the leaderboard broadcast after standings change.
package ranking

import (
	"sort"

	"github.com/coinpit/coinpit/internal/model"
	"github.com/coinpit/coinpit/internal/protocol"
)

// DefaultLimit is the number of players included in a rank broadcast.
const DefaultLimit = 100

// Top returns up to limit players ordered by taps descending. The sort is
// stable, so players with equal taps keep their insertion order.
func Top(players []*model.Player, limit int) []protocol.RankEntry {
	ordered := make([]*model.Player, len(players))
	copy(ordered, players)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Taps > ordered[j].Taps
	})

	if limit > 0 && len(ordered) > limit {
		ordered = ordered[:limit]
	}

	ranks := make([]protocol.RankEntry, 0, len(ordered))
	for _, p := range ordered {
		ranks = append(ranks, protocol.RankEntry{
			Nickname: p.Nickname,
			Taps:     p.Taps,
			Coins:    p.Coins,
			Icon:     p.IconRef,
		})
	}
	return ranks
}
