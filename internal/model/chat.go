package model

import "time"

// ChatEntry is an immutable chat line. IconRef is a snapshot of the sender's
// icon at send time; later icon changes do not rewrite history.
type ChatEntry struct {
	Nickname  Nickname  `json:"nickname"`
	IconRef   string    `json:"icon,omitempty"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
