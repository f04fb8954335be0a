package search_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mmcdole/gw2catalog/internal/domain"
	"github.com/mmcdole/gw2catalog/internal/search"
)

var catalog = []domain.Item{
	{ID: 19721, Name: "Glob of Ectoplasm", Type: domain.ItemTypeTrophy, Rarity: domain.RarityExotic},
	{ID: 19685, Name: "Orichalcum Ingot", Type: domain.ItemTypeCraftingMaterial, Rarity: domain.RarityBasic, Description: "Refined from ore"},
	{ID: 30684, Name: "Frostfang", Type: domain.ItemTypeWeapon, Rarity: domain.RarityLegendary, Level: 80},
	{ID: 12450, Name: "Bowl of Artichoke Soup", Type: domain.ItemTypeConsumable, Rarity: domain.RarityFine, Level: 75},
	{ID: 19723, Name: "Green Wood Log", Type: domain.ItemTypeCraftingMaterial, Rarity: domain.RarityBasic},
}

func ids(items []domain.Item) []int {
	out := make([]int, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func intPtr(v int) *int { return &v }

func TestFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		filters domain.FilterParams
		want    []int
	}{
		{"no filters", domain.FilterParams{}, []int{19721, 19685, 30684, 12450, 19723}},
		{"name substring", domain.FilterParams{Search: "ingot"}, []int{19685}},
		{"description substring", domain.FilterParams{Search: "refined"}, []int{19685}},
		{"type substring", domain.FilterParams{Search: "weapon"}, []int{30684}},
		{"name subsequence", domain.FilterParams{Search: "frstfng"}, []int{30684}},
		{"rarity set", domain.FilterParams{Rarities: []domain.Rarity{domain.RarityBasic}}, []int{19685, 19723}},
		{"level range", domain.FilterParams{MinLevel: intPtr(70), MaxLevel: intPtr(78)}, []int{12450}},
		{"combined", domain.FilterParams{Search: "o", Rarities: []domain.Rarity{domain.RarityExotic}}, []int{19721}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, ids(search.Filter(catalog, tt.filters)))
		})
	}
}

func TestSortByRarityIsStable(t *testing.T) {
	t.Parallel()

	sorted := search.SortByRarity(catalog)
	require.Equal(t, []int{30684, 19721, 12450, 19685, 19723}, ids(sorted))

	// input untouched
	require.Equal(t, 19721, catalog[0].ID)
}

func TestIndexFind(t *testing.T) {
	t.Parallel()

	idx := search.NewIndex(append(catalog, catalog[0]))
	require.Equal(t, len(catalog), idx.Len())

	results := idx.Find("ecto", 0)
	require.NotEmpty(t, results)
	require.Equal(t, 19721, results[0].Item.ID)
	require.NotEmpty(t, results[0].MatchedIndexes)

	require.Nil(t, idx.Find("   ", 10))
	require.Len(t, idx.Find("o", 2), 2)
}

func TestFilterSignature(t *testing.T) {
	t.Parallel()

	a := domain.FilterParams{Search: "ingot", MinLevel: intPtr(10)}
	b := domain.FilterParams{Search: "ingot", MinLevel: intPtr(10)}
	c := domain.FilterParams{Search: "ingot", MinLevel: intPtr(11)}

	require.Equal(t, a.Signature(), b.Signature())
	require.NotEqual(t, a.Signature(), c.Signature())
	require.True(t, domain.FilterParams{}.IsZero())
	require.False(t, a.IsZero())
}
