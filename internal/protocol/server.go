package protocol

import (
	"errors"
	"time"

	"github.com/coinpit/coinpit/internal/model"
)

// Server message type tags
const (
	TypeInit          = "init"
	TypeSetNameResult = "setNameResult"
	TypeRanks         = "ranks"
	TypeSystem        = "system"
	TypeBanned        = "banned"
	TypeBuyResult     = "buyResult"
)

// Failure reason codes for setNameResult
const (
	ReasonEmpty     = "empty"
	ReasonAdminAuth = "admin_auth"
	ReasonBanned    = "banned"
	ReasonInUse     = "inuse"
)

// Failure reason codes for buyResult
const (
	ReasonInvalidItem       = "invalid_item"
	ReasonInsufficientFunds = "insufficient_funds"
	ReasonInternal          = "error"
)

// RankEntry is one row of the leaderboard, ordered by taps descending.
type RankEntry struct {
	Nickname model.Nickname `json:"nickname"`
	Taps     int64          `json:"taps"`
	Coins    int64          `json:"coins"`
	Icon     string         `json:"icon,omitempty"`
}

// ChatEvent mirrors a chat entry on the wire.
type ChatEvent struct {
	Type      string         `json:"type"`
	Nickname  model.Nickname `json:"nickname"`
	Icon      string         `json:"icon,omitempty"`
	Text      string         `json:"text"`
	Timestamp time.Time      `json:"timestamp"`
}

// Init is sent once per connection, immediately after it opens.
type Init struct {
	Type  string           `json:"type"`
	Shop  []model.ShopItem `json:"shop"`
	Ranks []RankEntry      `json:"ranks"`
	Chats []ChatEvent      `json:"chats"`
}

// SetNameResult reports the outcome of a nickname claim.
type SetNameResult struct {
	Type     string         `json:"type"`
	OK       bool           `json:"ok"`
	Nickname model.Nickname `json:"nickname,omitempty"`
	Reason   string         `json:"reason,omitempty"`
}

// TapEvent carries a player's updated counters after a tap.
type TapEvent struct {
	Type     string         `json:"type"`
	Nickname model.Nickname `json:"nickname"`
	Coins    int64          `json:"coins"`
	Taps     int64          `json:"taps"`
	TapValue int64          `json:"tapValue"`
}

// RanksEvent carries the refreshed leaderboard.
type RanksEvent struct {
	Type  string      `json:"type"`
	Ranks []RankEntry `json:"ranks"`
}

// SystemEvent is a broadcast server notice.
type SystemEvent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// BannedEvent notifies a connection that its player has been banned; the
// server closes the connection immediately after sending it.
type BannedEvent struct {
	Type     string         `json:"type"`
	Nickname model.Nickname `json:"nickname"`
}

// BuyResult reports the outcome of a purchase.
type BuyResult struct {
	Type   string `json:"type"`
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

// NewInit builds the init snapshot for a freshly opened connection.
func NewInit(shop []model.ShopItem, ranks []RankEntry, chats []model.ChatEntry) Init {
	events := make([]ChatEvent, 0, len(chats))
	for _, c := range chats {
		events = append(events, NewChatEvent(c))
	}
	return Init{Type: TypeInit, Shop: shop, Ranks: ranks, Chats: events}
}

// NewChatEvent converts a persisted chat entry to its wire form.
func NewChatEvent(entry model.ChatEntry) ChatEvent {
	return ChatEvent{
		Type:      TypeChat,
		Nickname:  entry.Nickname,
		Icon:      entry.IconRef,
		Text:      entry.Text,
		Timestamp: entry.Timestamp,
	}
}

// NewSetNameOK builds a successful claim result with the canonical nickname.
func NewSetNameOK(nickname model.Nickname) SetNameResult {
	return SetNameResult{Type: TypeSetNameResult, OK: true, Nickname: nickname}
}

// NewSetNameFailure maps a claim error to its wire reason code.
func NewSetNameFailure(err error) SetNameResult {
	return SetNameResult{Type: TypeSetNameResult, Reason: claimReason(err)}
}

// NewTapEvent builds a tap update from the player's current counters.
func NewTapEvent(p *model.Player) TapEvent {
	return TapEvent{
		Type:     TypeTap,
		Nickname: p.Nickname,
		Coins:    p.Coins,
		Taps:     p.Taps,
		TapValue: p.TapValue,
	}
}

// NewRanksEvent wraps a leaderboard for broadcast.
func NewRanksEvent(ranks []RankEntry) RanksEvent {
	return RanksEvent{Type: TypeRanks, Ranks: ranks}
}

// NewSystemEvent builds a broadcast notice.
func NewSystemEvent(text string) SystemEvent {
	return SystemEvent{Type: TypeSystem, Text: text}
}

// NewBannedEvent builds the ban notice for a forced disconnect.
func NewBannedEvent(nickname model.Nickname) BannedEvent {
	return BannedEvent{Type: TypeBanned, Nickname: nickname}
}

// NewBuyOK builds a successful purchase result.
func NewBuyOK() BuyResult {
	return BuyResult{Type: TypeBuyResult, OK: true}
}

// NewBuyFailure maps a purchase error to its wire reason code.
func NewBuyFailure(err error) BuyResult {
	return BuyResult{Type: TypeBuyResult, Reason: buyReason(err)}
}

func claimReason(err error) string {
	switch {
	case errors.Is(err, model.ErrNameEmpty):
		return ReasonEmpty
	case errors.Is(err, model.ErrAdminAuth):
		return ReasonAdminAuth
	case errors.Is(err, model.ErrNameBanned):
		return ReasonBanned
	case errors.Is(err, model.ErrNameInUse):
		return ReasonInUse
	default:
		return ReasonInternal
	}
}

func buyReason(err error) string {
	switch {
	case errors.Is(err, model.ErrUnknownItem):
		return ReasonInvalidItem
	case errors.Is(err, model.ErrInsufficientFunds):
		return ReasonInsufficientFunds
	default:
		return ReasonInternal
	}
}
