// Package protocol defines the JSON websocket wire format: a closed set of
// tagged message variants per direction.
package protocol

import (
	"encoding/json"
	"errors"
)

// Client message type tags
const (
	TypeSetName = "setName"
	TypeTap     = "tap"
	TypeBuy     = "buy"
	TypeChat    = "chat"
)

// Decode errors
var (
	ErrMalformedMessage = errors.New("malformed message")
	ErrUnknownType      = errors.New("unknown message type")
)

// ClientMessage is a message received from a client. It is a closed set:
// SetName, Tap, Buy and Chat.
type ClientMessage interface {
	clientMessage()
}

// SetName claims a nickname for the connection.
type SetName struct {
	Nickname    string
	AdminSecret string
}

// Tap registers one manual tap for the claimed player.
type Tap struct{}

// Buy purchases a shop item by id for the claimed player.
type Buy struct {
	ItemID string
}

// Chat posts a chat line (or an admin slash command) as the claimed player.
type Chat struct {
	Text string
}

func (SetName) clientMessage() {}
func (Tap) clientMessage()     {}
func (Buy) clientMessage()     {}
func (Chat) clientMessage()    {}

// DecodeClient parses a raw inbound frame into one of the closed client
// message variants. Unknown types and unparseable payloads return an error;
// callers drop such frames silently to tolerate protocol drift.
func DecodeClient(data []byte) (ClientMessage, error) {
	var raw struct {
		Type        string `json:"type"`
		Nickname    string `json:"nickname"`
		AdminSecret string `json:"adminSecret"`
		ItemID      string `json:"itemId"`
		Text        string `json:"text"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, ErrMalformedMessage
	}

	switch raw.Type {
	case TypeSetName:
		return SetName{Nickname: raw.Nickname, AdminSecret: raw.AdminSecret}, nil
	case TypeTap:
		return Tap{}, nil
	case TypeBuy:
		return Buy{ItemID: raw.ItemID}, nil
	case TypeChat:
		return Chat{Text: raw.Text}, nil
	default:
		return nil, ErrUnknownType
	}
}
