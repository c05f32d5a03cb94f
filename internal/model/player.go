package model

// Nickname uniquely identifies a player across the system.
// Comparison is case-sensitive.
type Nickname string

// Player represents a persisted game participant. Players are created on
// first successful nickname claim (or first icon upload for a new nickname)
// and are never deleted in normal operation.
type Player struct {
	Nickname   Nickname `json:"nickname"`
	Coins      int64    `json:"coins"`
	TapValue   int64    `json:"tapValue"`
	AutoIncome int64    `json:"autoIncome"`
	Taps       int64    `json:"taps"`
	IconRef    string   `json:"icon,omitempty"`
}

// NewPlayer returns a fresh player with zero balances and base tap power.
func NewPlayer(nickname Nickname) *Player {
	return &Player{
		Nickname: nickname,
		TapValue: 1,
	}
}
