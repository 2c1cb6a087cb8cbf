package domain

// ─── Cosmetic Shop ──────────────────────────────────────────────────────────
// The shop is a static catalog; buying an item books a Purchase activity
// whose cost is deducted from the buyer's derived score.

// ShopItemType groups catalog items into display tabs.
type ShopItemType string

const (
	ItemFrame ShopItemType = "FRAME"
	ItemTheme ShopItemType = "THEME"
)

// ShopItem is one cosmetic item in the catalog.
type ShopItem struct {
	ID    string       `json:"id"`
	Label string       `json:"label"`
	Icon  string       `json:"icon"`
	Price int          `json:"price"`
	Type  ShopItemType `json:"type"`
}

// ShopItems is the full catalog. Price 0 items are owned by default.
var ShopItems = []ShopItem{
	{ID: "frame_none", Label: "Без рамки", Icon: "block", Price: 0, Type: ItemFrame},
	{ID: "frame_hearts", Label: "Сердечки", Icon: "favorite", Price: 50, Type: ItemFrame},
	{ID: "frame_gold", Label: "Золотая рамка", Icon: "workspace_premium", Price: 120, Type: ItemFrame},
	{ID: "frame_fire", Label: "Огонь", Icon: "local_fire_department", Price: 200, Type: ItemFrame},
	{ID: "frame_crown", Label: "Корона", Icon: "crown", Price: 350, Type: ItemFrame},
	{ID: "theme_light", Label: "Светлая тема", Icon: "light_mode", Price: 0, Type: ItemTheme},
	{ID: "theme_dark", Label: "Тёмная тема", Icon: "dark_mode", Price: 80, Type: ItemTheme},
	{ID: "theme_neon", Label: "Неон", Icon: "bolt", Price: 150, Type: ItemTheme},
	{ID: "theme_royal", Label: "Королевская", Icon: "diamond", Price: 300, Type: ItemTheme},
}

// FindShopItem looks an item up by id.
func FindShopItem(id string) (ShopItem, bool) {
	for _, item := range ShopItems {
		if item.ID == id {
			return item, true
		}
	}
	return ShopItem{}, false
}
