package domain

import (
	"encoding/json"
	"fmt"
)

// ItemType is the top-level item classification reported by the API
type ItemType string

const (
	ItemTypeArmor            ItemType = "Armor"
	ItemTypeBack             ItemType = "Back"
	ItemTypeBag              ItemType = "Bag"
	ItemTypeConsumable       ItemType = "Consumable"
	ItemTypeContainer        ItemType = "Container"
	ItemTypeCraftingMaterial ItemType = "CraftingMaterial"
	ItemTypeGathering        ItemType = "Gathering"
	ItemTypeGizmo            ItemType = "Gizmo"
	ItemTypeMiniPet          ItemType = "MiniPet"
	ItemTypeTool             ItemType = "Tool"
	ItemTypeTrinket          ItemType = "Trinket"
	ItemTypeTrophy           ItemType = "Trophy"
	ItemTypeUpgradeComponent ItemType = "UpgradeComponent"
	ItemTypeWeapon           ItemType = "Weapon"
)

// ItemTypes lists the item types in display order
var ItemTypes = []ItemType{
	ItemTypeArmor, ItemTypeBack, ItemTypeBag, ItemTypeConsumable, ItemTypeContainer,
	ItemTypeCraftingMaterial, ItemTypeGathering, ItemTypeGizmo, ItemTypeMiniPet,
	ItemTypeTool, ItemTypeTrinket, ItemTypeTrophy, ItemTypeUpgradeComponent, ItemTypeWeapon,
}

// Rarity is the item quality tier
type Rarity string

const (
	RarityJunk       Rarity = "Junk"
	RarityBasic      Rarity = "Basic"
	RarityFine       Rarity = "Fine"
	RarityMasterwork Rarity = "Masterwork"
	RarityRare       Rarity = "Rare"
	RarityExotic     Rarity = "Exotic"
	RarityAscended   Rarity = "Ascended"
	RarityLegendary  Rarity = "Legendary"
)

// Rank orders rarities from Junk (1) to Legendary (8). Unknown rarities rank 0.
func (r Rarity) Rank() int {
	switch r {
	case RarityLegendary:
		return 8
	case RarityAscended:
		return 7
	case RarityExotic:
		return 6
	case RarityRare:
		return 5
	case RarityMasterwork:
		return 4
	case RarityFine:
		return 3
	case RarityBasic:
		return 2
	case RarityJunk:
		return 1
	default:
		return 0
	}
}

// Keyed is implemented by every record the cache persists.
type Keyed interface {
	Key() int
}

// Item is one catalog entry
type Item struct {
	ID           int             `json:"id"`
	ChatLink     string          `json:"chat_link,omitempty"`
	Name         string          `json:"name"`
	Icon         string          `json:"icon,omitempty"`
	Description  string          `json:"description,omitempty"`
	Type         ItemType        `json:"type"`
	Rarity       Rarity          `json:"rarity"`
	Level        int             `json:"level"`
	VendorValue  int             `json:"vendor_value"`
	DefaultSkin  int             `json:"default_skin,omitempty"`
	Flags        []string        `json:"flags,omitempty"`
	GameTypes    []string        `json:"game_types,omitempty"`
	Restrictions []string        `json:"restrictions,omitempty"`
	UpgradesInto []ItemUpgrade   `json:"upgrades_into,omitempty"`
	UpgradesFrom []ItemUpgrade   `json:"upgrades_from,omitempty"`
	Details      json.RawMessage `json:"details,omitempty"`
}

// ItemUpgrade links an item to an upgrade path
type ItemUpgrade struct {
	Upgrade string `json:"upgrade"`
	ItemID  int    `json:"item_id"`
}

func (i Item) Key() int { return i.ID }

// DecodeDetails unmarshals the type-specific details block into dest.
// It returns ErrNoDetails when the item carries none.
func (i Item) DecodeDetails(dest any) error {
	if len(i.Details) == 0 {
		return ErrNoDetails
	}
	if err := json.Unmarshal(i.Details, dest); err != nil {
		return fmt.Errorf("decode %s details for item %d: %w", i.Type, i.ID, err)
	}
	return nil
}

// WeaponDetails is the details variant for ItemTypeWeapon
type WeaponDetails struct {
	Type       string `json:"type"`
	DamageType string `json:"damage_type"`
	MinPower   int    `json:"min_power"`
	MaxPower   int    `json:"max_power"`
	Defense    int    `json:"defense"`
}

// ArmorDetails is the details variant for ItemTypeArmor
type ArmorDetails struct {
	Type        string `json:"type"`
	WeightClass string `json:"weight_class"`
	Defense     int    `json:"defense"`
}

// ConsumableDetails is the details variant for ItemTypeConsumable
type ConsumableDetails struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	DurationMS  int    `json:"duration_ms,omitempty"`
}

// Ingredient is one input of a recipe
type Ingredient struct {
	ItemID int `json:"item_id"`
	Count  int `json:"count"`
}

// Recipe is a crafting transformation
type Recipe struct {
	ID              int          `json:"id"`
	Type            string       `json:"type"`
	OutputItemID    int          `json:"output_item_id"`
	OutputItemCount int          `json:"output_item_count"`
	TimeToCraftMS   int          `json:"time_to_craft_ms"`
	Disciplines     []string     `json:"disciplines"`
	MinRating       int          `json:"min_rating"`
	Flags           []string     `json:"flags,omitempty"`
	Ingredients     []Ingredient `json:"ingredients"`
	ChatLink        string       `json:"chat_link,omitempty"`
}

func (r Recipe) Key() int { return r.ID }

// Valid reports whether the recipe has ingredients and a positive output count.
func (r Recipe) Valid() bool {
	return len(r.Ingredients) > 0 && r.OutputItemCount > 0
}

// PriceLevel summarises one side of the trading post order book
type PriceLevel struct {
	Quantity  int `json:"quantity"`
	UnitPrice int `json:"unit_price"`
}

// ItemPrice is the current best buy/sell quote for an item
type ItemPrice struct {
	ID          int        `json:"id"`
	Whitelisted bool       `json:"whitelisted"`
	Buys        PriceLevel `json:"buys"`
	Sells       PriceLevel `json:"sells"`
}

func (p ItemPrice) Key() int { return p.ID }

// EmptyPrice returns the "no trading data" quote for an item.
func EmptyPrice(id int) ItemPrice {
	return ItemPrice{ID: id}
}

// HasTradingData returns false for placeholder quotes
func (p ItemPrice) HasTradingData() bool {
	return p.Whitelisted || p.Buys != (PriceLevel{}) || p.Sells != (PriceLevel{})
}

// IngredientCost is one priced line of a craft cost breakdown
type IngredientCost struct {
	Item      Item
	Count     int
	UnitPrice int  // copper per unit
	FromTP    bool // false when the vendor value was used
}

// Total returns the line total in copper
func (c IngredientCost) Total() int {
	return c.UnitPrice * c.Count
}

// CraftCost is the cost of crafting an item from its first known recipe
type CraftCost struct {
	Recipe      Recipe
	Ingredients []IngredientCost
	Total       int
}

// Comparison pairs an item with its current quote
type Comparison struct {
	Item  Item
	Price ItemPrice
}
