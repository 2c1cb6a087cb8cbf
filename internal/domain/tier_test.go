package domain

import "testing"

func TestTierFor(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, "Нуб"},
		{99, "Нуб"},
		{100, "Токсик"},
		{470, "Старательный"},
		{500, "Зайка"},
		{999, "Идеал"},
		{1000, "Божество"},
		{1750, "Божество"}, // score has no ceiling, tier saturates
	}

	for _, tt := range tests {
		if got := TierFor(tt.score); got.Name != tt.want {
			t.Errorf("TierFor(%d) = %q, want %q", tt.score, got.Name, tt.want)
		}
	}
}

func TestTiersSorted(t *testing.T) {
	for i := 1; i < len(Tiers); i++ {
		if Tiers[i].Min <= Tiers[i-1].Min {
			t.Fatalf("tier table not strictly ascending at index %d", i)
		}
	}
}

func TestShopCatalog(t *testing.T) {
	seen := make(map[string]bool)
	for _, item := range ShopItems {
		if seen[item.ID] {
			t.Errorf("duplicate shop item id %q", item.ID)
		}
		seen[item.ID] = true
		if item.Price < 0 {
			t.Errorf("item %q has negative price %d", item.ID, item.Price)
		}
	}
	if _, ok := FindShopItem("no_such_item"); ok {
		t.Error("FindShopItem must miss on unknown ids")
	}
}
