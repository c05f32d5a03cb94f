package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
)

// wsSession is a live websocket connection to the session server.
type wsSession struct {
	conn *websocket.Conn
}

func dialSession() (*wsSession, error) {
	wsURL, err := cfg.WebsocketURL()
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.Dial(wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", wsURL, err)
	}

	return &wsSession{conn: conn}, nil
}

func (s *wsSession) close() {
	_ = s.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = s.conn.Close()
}

func (s *wsSession) send(v any) error {
	return s.conn.WriteJSON(v)
}

// read returns the next server frame along with its type tag.
func (s *wsSession) read() (string, json.RawMessage, error) {
	_, data, err := s.conn.ReadMessage()
	if err != nil {
		return "", nil, err
	}

	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return "", nil, fmt.Errorf("unparseable server frame: %w", err)
	}

	return envelope.Type, json.RawMessage(data), nil
}

// claim sends a setName request and waits for its result, skipping any
// broadcast frames that arrive in between.
func (s *wsSession) claim(nickname, adminSecret string) error {
	req := map[string]string{"type": "setName", "nickname": nickname}
	if adminSecret != "" {
		req["adminSecret"] = adminSecret
	}
	if err := s.send(req); err != nil {
		return fmt.Errorf("failed to send claim: %w", err)
	}

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		frameType, raw, err := s.read()
		if err != nil {
			return fmt.Errorf("connection lost waiting for claim result: %w", err)
		}
		if frameType != "setNameResult" {
			continue
		}

		var result struct {
			OK     bool   `json:"ok"`
			Reason string `json:"reason"`
		}
		if err := json.Unmarshal(raw, &result); err != nil {
			return fmt.Errorf("unparseable claim result: %w", err)
		}
		if !result.OK {
			return fmt.Errorf("nickname %q rejected: %s", nickname, result.Reason)
		}
		return nil
	}

	return fmt.Errorf("timed out waiting for claim result")
}
