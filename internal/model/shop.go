package model

// ItemKind distinguishes the two upgrade effects in the shop catalog.
type ItemKind string

const (
	// ItemKindTap upgrades permanently increase a player's per-tap coin gain.
	ItemKindTap ItemKind = "tap"
	// ItemKindAuto upgrades increase a player's passive per-tick income.
	ItemKindAuto ItemKind = "auto"
)

// ShopItem is one purchasable upgrade. The catalog is seeded at first boot
// and immutable at runtime.
type ShopItem struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Price int64    `json:"price"`
	Kind  ItemKind `json:"kind"`
	Value int64    `json:"value"`
}

// DefaultShopCatalog returns the catalog seeded into a fresh document:
// two tap-power tiers and two passive-income tiers.
func DefaultShopCatalog() []ShopItem {
	return []ShopItem{
		{ID: "cheapUp", Name: "Tap power +1", Price: 10, Kind: ItemKindTap, Value: 1},
		{ID: "midUp", Name: "Tap power +5", Price: 45, Kind: ItemKindTap, Value: 5},
		{ID: "auto1", Name: "Auto income +1/s", Price: 30, Kind: ItemKindAuto, Value: 1},
		{ID: "auto5", Name: "Auto income +5/s", Price: 130, Kind: ItemKindAuto, Value: 5},
	}
}
