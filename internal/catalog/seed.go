package catalog

import (
	_ "embed"
	"encoding/json"
	"slices"
	"strings"
	"sync"

	"github.com/mmcdole/gw2catalog/internal/domain"
	"github.com/mmcdole/gw2catalog/internal/search"
)

// Category names accepted by ListByCategory besides the item types
const (
	CategoryAll = "all"
)

// Seed ids per curated category, used before the full id list is known.
var (
	craftingMaterialIDs = uniqueIDs([]int{
		19721, 19685, 19719, 19723, 19726, 19790, 19687, 19699, 19698, 19701,
		19924, 19976, 19925, 19748, 19745, 19732, 19680, 19679, 19683, 19687,
		19681, 19682, 19684, 24276, 24277, 24294, 24295, 24341, 24350, 24356,
		24358, 24363, 24276, 24358, 24341, 24350,
	})
	weaponIDs = uniqueIDs([]int{
		30684, 30696, 30695, 30688, 30691, 30692, 30702, 71383, 76158, 30698,
		30686, 30687, 30689, 30690, 30693, 30696, 30697, 30699, 30700, 30701,
		30703, 30704, 46774, 46760, 46762, 48896, 48911, 48929, 48913,
	})
	armorIDs = uniqueIDs([]int{
		75915, 72156, 76361, 76073, 72339, 80661, 68786, 70823, 71994, 60410,
		48073, 48078, 48075, 48077, 48074, 48076, 48884, 48885, 48888, 48886,
		48889, 48887, 49507, 49510, 49508, 75820, 75591, 76010, 75436,
	})
	consumableIDs = uniqueIDs([]int{
		91126, 91191, 91232, 12450, 49432, 91796, 97462, 12165, 8764, 43360,
		12157, 12151, 12153, 12156, 12271, 12337, 12338, 12339, 12344, 12346,
		12347, 12350, 12472, 12544, 12550, 36760, 36779, 36829, 36833,
	})
)

//go:embed fallback_items.json
var fallbackJSON []byte

// fallbackItems decodes the embedded items once; a bad file yields none
var fallbackItems = sync.OnceValue(func() []domain.Item {
	var items []domain.Item
	if err := json.Unmarshal(fallbackJSON, &items); err != nil {
		return nil
	}
	return items
})

// SeedIDs returns the curated ids for a category, or nil when the category
// has no curated list.
func SeedIDs(category string) []int {
	switch domain.ItemType(category) {
	case domain.ItemTypeCraftingMaterial:
		return slices.Clone(craftingMaterialIDs)
	case domain.ItemTypeWeapon:
		return slices.Clone(weaponIDs)
	case domain.ItemTypeArmor:
		return slices.Clone(armorIDs)
	case domain.ItemTypeConsumable:
		return slices.Clone(consumableIDs)
	}
	return nil
}

// allSeedIDs is every curated id once, in category order
func allSeedIDs() []int {
	return uniqueIDs(slices.Concat(craftingMaterialIDs, weaponIDs, armorIDs, consumableIDs))
}

// popularIDs takes the head of each curated list
func popularIDs() []int {
	return uniqueIDs(slices.Concat(
		craftingMaterialIDs[:8],
		weaponIDs[:4],
		armorIDs[:4],
		consumableIDs[:4],
	))
}

// FallbackItems returns the built-in items that belong to category, rarest first
func FallbackItems(category string) []domain.Item {
	var out []domain.Item
	for _, item := range fallbackItems() {
		if InCategory(item, category) {
			out = append(out, item)
		}
	}
	return search.SortByRarity(out)
}

var (
	weaponKeywords = []string{
		"axe", "dagger", "focus", "greatsword", "hammer", "harpoon", "longbow",
		"mace", "pistol", "rifle", "scepter", "shield", "shortbow", "speargun",
		"staff", "sword", "torch", "trident", "warhorn",
	}
	armorKeywords = []string{
		"helm", "shoulders", "coat", "gloves", "leggings", "boots", "headgear",
		"mantle", "vestments", "gauntlets", "tassets", "footgear", "helmet",
		"pauldrons", "chestpiece", "handwear", "legwear", "footwear",
	}
	consumableKeywords = []string{"potion", "elixir", "food", "utility", "feast", "boost"}
)

// InCategory reports whether item belongs in a category listing. The type
// always matches; curated categories also accept name and description hints.
func InCategory(item domain.Item, category string) bool {
	if category == "" || category == CategoryAll {
		return true
	}
	if string(item.Type) == category {
		return true
	}

	name := strings.ToLower(item.Name)
	desc := strings.ToLower(item.Description)
	mentions := func(keywords []string) bool {
		for _, k := range keywords {
			if strings.Contains(name, k) || strings.Contains(desc, k) {
				return true
			}
		}
		return false
	}

	switch domain.ItemType(category) {
	case domain.ItemTypeCraftingMaterial:
		return strings.Contains(desc, "crafting")
	case domain.ItemTypeWeapon:
		return mentions(weaponKeywords)
	case domain.ItemTypeArmor:
		return mentions(armorKeywords)
	case domain.ItemTypeConsumable:
		return item.Type == domain.ItemTypeTrophy || item.Type == domain.ItemTypeGizmo ||
			mentions(consumableKeywords)
	}
	return false
}
