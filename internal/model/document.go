package model

// Document is the full persisted aggregate: players, chat history, shop
// catalog and ban list. The storage layer reads and writes it as a single
// unit; callers must serialize read-modify-write cycles (see internal/state).
type Document struct {
	Players []*Player   `json:"players"`
	Chat    []ChatEntry `json:"chat"`
	Shop    []ShopItem  `json:"shop"`
	Bans    []Nickname  `json:"bans"`
}

// NewDocument returns an empty document with the default shop catalog seeded.
func NewDocument() *Document {
	return &Document{
		Players: []*Player{},
		Chat:    []ChatEntry{},
		Shop:    DefaultShopCatalog(),
		Bans:    []Nickname{},
	}
}

// FindPlayer returns the player with the given nickname, or nil.
// Nicknames are unique within Players.
func (d *Document) FindPlayer(nickname Nickname) *Player {
	for _, p := range d.Players {
		if p.Nickname == nickname {
			return p
		}
	}
	return nil
}

// EnsurePlayer returns the player with the given nickname, appending a fresh
// one if none exists yet.
func (d *Document) EnsurePlayer(nickname Nickname) *Player {
	if p := d.FindPlayer(nickname); p != nil {
		return p
	}
	p := NewPlayer(nickname)
	d.Players = append(d.Players, p)
	return p
}

// FindItem returns the shop item with the given id, or nil.
func (d *Document) FindItem(id string) *ShopItem {
	for i := range d.Shop {
		if d.Shop[i].ID == id {
			return &d.Shop[i]
		}
	}
	return nil
}

// IsBanned reports whether the nickname is on the ban list.
func (d *Document) IsBanned(nickname Nickname) bool {
	for _, b := range d.Bans {
		if b == nickname {
			return true
		}
	}
	return false
}

// Ban adds the nickname to the ban list if not already present.
func (d *Document) Ban(nickname Nickname) {
	if d.IsBanned(nickname) {
		return
	}
	d.Bans = append(d.Bans, nickname)
}

// Unban removes the nickname from the ban list. It reports whether the
// nickname was present.
func (d *Document) Unban(nickname Nickname) bool {
	for i, b := range d.Bans {
		if b == nickname {
			d.Bans = append(d.Bans[:i], d.Bans[i+1:]...)
			return true
		}
	}
	return false
}

// RecentChat returns up to the last n chat entries in insertion order.
func (d *Document) RecentChat(n int) []ChatEntry {
	if n <= 0 || len(d.Chat) <= n {
		return d.Chat
	}
	return d.Chat[len(d.Chat)-n:]
}
