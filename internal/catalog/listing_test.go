package catalog_test

import (
	"context"
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mmcdole/gw2catalog/internal/catalog"
	"github.com/mmcdole/gw2catalog/internal/domain"
)

func trinkets() []domain.Item {
	return []domain.Item{
		{ID: 1, Name: "Basic Ring", Type: domain.ItemTypeTrinket, Rarity: domain.RarityBasic, Level: 10},
		{ID: 2, Name: "Legendary Amulet", Type: domain.ItemTypeTrinket, Rarity: domain.RarityLegendary, Level: 80},
		{ID: 3, Name: "Fine Ring", Type: domain.ItemTypeTrinket, Rarity: domain.RarityFine, Level: 35},
		{ID: 4, Name: "Exotic Accessory", Type: domain.ItemTypeTrinket, Rarity: domain.RarityExotic, Level: 80},
		{ID: 5, Name: "Rare Ring", Type: domain.ItemTypeTrinket, Rarity: domain.RarityRare, Level: 60},
		{ID: 6, Name: "Bronze Axe", Type: domain.ItemTypeWeapon, Rarity: domain.RarityAscended, Level: 5},
	}
}

func TestListByCategoryPaginatesRarestFirst(t *testing.T) {
	t.Parallel()

	// Arrange
	h := newHarness(t, nil)
	h.api.addItems(trinkets()...)

	// Act
	first, err := h.catalog.ListByCategory(t.Context(), string(domain.ItemTypeTrinket), 0, 2, domain.FilterParams{})
	require.NoError(t, err)
	last, err := h.catalog.ListByCategory(t.Context(), string(domain.ItemTypeTrinket), 2, 2, domain.FilterParams{})
	require.NoError(t, err)

	// Assert
	require.Equal(t, []int{2, 4}, itemIDs(first.Items))
	require.Equal(t, 5, first.TotalCount)
	require.True(t, first.HasMore)

	require.Equal(t, []int{1}, itemIDs(last.Items))
	require.False(t, last.HasMore)
}

func TestListByCategoryAppliesFilters(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	h.api.addItems(trinkets()...)
	minLevel := 30

	page, err := h.catalog.ListByCategory(t.Context(), string(domain.ItemTypeTrinket), 0, 10, domain.FilterParams{
		Search:   "ring",
		MinLevel: &minLevel,
	})

	require.NoError(t, err)
	require.Equal(t, []int{5, 3}, itemIDs(page.Items))
	require.Equal(t, 2, page.TotalCount)
	require.False(t, page.HasMore)
}

func TestListByCategoryAllIncludesEveryType(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	h.api.addItems(trinkets()...)

	page, err := h.catalog.ListByCategory(t.Context(), catalog.CategoryAll, 0, 10, domain.FilterParams{
		Rarities: []domain.Rarity{domain.RarityAscended, domain.RarityLegendary},
	})

	require.NoError(t, err)
	require.Equal(t, []int{2, 6}, itemIDs(page.Items))
}

func TestListByCategoryFallsBackOffline(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	h.api.setDown(true)

	page, err := h.catalog.ListByCategory(t.Context(), string(domain.ItemTypeWeapon), 0, 20, domain.FilterParams{})

	require.NoError(t, err)
	require.ElementsMatch(t, []int{30684, 30696}, itemIDs(page.Items))
	requireRarestFirst(t, page.Items)
}

func TestListByCategoryCancelledReturnsFallback(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	page, err := h.catalog.ListByCategory(ctx, string(domain.ItemTypeArmor), 0, 20, domain.FilterParams{})

	require.ErrorIs(t, err, context.Canceled)
	require.False(t, page.HasMore)
	require.Contains(t, itemIDs(page.Items), 75915)
	require.Equal(t, len(page.Items), page.TotalCount)
	requireRarestFirst(t, page.Items)
}

func TestListByCategoryHugePageIsEmpty(t *testing.T) {
	t.Parallel()

	// Arrange
	h := newHarness(t, nil)
	h.api.addItems(trinkets()...)

	// Act
	page, err := h.catalog.ListByCategory(t.Context(), string(domain.ItemTypeTrinket), math.MaxInt, 50, domain.FilterParams{})

	// Assert
	require.NoError(t, err)
	require.Equal(t, 5, page.TotalCount)
	require.False(t, page.HasMore)
}

func TestFallbackItemsRarestFirst(t *testing.T) {
	t.Parallel()

	for _, category := range []string{catalog.CategoryAll, "Consumable", "Weapon", "Armor"} {
		items := catalog.FallbackItems(category)
		require.NotEmpty(t, items, category)
		requireRarestFirst(t, items)
	}
}

func requireRarestFirst(t *testing.T, items []domain.Item) {
	t.Helper()

	require.True(t, slices.IsSortedFunc(items, func(a, b domain.Item) int {
		return b.Rarity.Rank() - a.Rarity.Rank()
	}), "items not ordered rarest first")
}

func TestInCategoryHeuristics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		item     domain.Item
		category string
		want     bool
	}{
		{"type match", domain.Item{Type: domain.ItemTypeBag}, "Bag", true},
		{"all", domain.Item{Type: domain.ItemTypeBag}, catalog.CategoryAll, true},
		{"crafting description", domain.Item{Type: domain.ItemTypeTrophy, Description: "Used in Crafting."}, "CraftingMaterial", true},
		{"weapon name", domain.Item{Type: domain.ItemTypeTrophy, Name: "Shortbow Skin"}, "Weapon", true},
		{"armor name", domain.Item{Type: domain.ItemTypeContainer, Name: "Box of Pauldrons"}, "Armor", true},
		{"trophy is consumable", domain.Item{Type: domain.ItemTypeTrophy}, "Consumable", true},
		{"potion description", domain.Item{Type: domain.ItemTypeContainer, Description: "A Potion"}, "Consumable", true},
		{"unrelated", domain.Item{Type: domain.ItemTypeBag, Name: "Invisible Bag"}, "Weapon", false},
		{"uncurated needs type", domain.Item{Type: domain.ItemTypeBag}, "Tool", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, catalog.InCategory(tt.item, tt.category))
		})
	}
}

func TestSeedIDsAreUnique(t *testing.T) {
	t.Parallel()

	for _, category := range []string{"CraftingMaterial", "Weapon", "Armor", "Consumable"} {
		ids := catalog.SeedIDs(category)
		require.NotEmpty(t, ids, category)
		require.Len(t, uniq(ids), len(ids), category)
	}
	require.Nil(t, catalog.SeedIDs("Trinket"))
}
