package search

import (
	"slices"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mmcdole/gw2catalog/internal/domain"
)

// MatchesText reports whether query appears in the item's name, description
// or type. Names also match when query's characters occur in order, ignoring
// case and accents.
func MatchesText(item domain.Item, query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(item.Name), query) {
		return true
	}
	if fuzzy.MatchNormalizedFold(query, item.Name) {
		return true
	}
	if item.Description != "" && strings.Contains(strings.ToLower(item.Description), query) {
		return true
	}
	return item.Type != "" && strings.Contains(strings.ToLower(string(item.Type)), query)
}

// Filter applies search text, rarity set and level bounds. The input is not modified.
func Filter(items []domain.Item, f domain.FilterParams) []domain.Item {
	out := make([]domain.Item, 0, len(items))
	for _, item := range items {
		if !MatchesText(item, f.Search) {
			continue
		}
		if len(f.Rarities) > 0 && !slices.Contains(f.Rarities, item.Rarity) {
			continue
		}
		if f.MinLevel != nil && item.Level < *f.MinLevel {
			continue
		}
		if f.MaxLevel != nil && item.Level > *f.MaxLevel {
			continue
		}
		out = append(out, item)
	}
	return out
}

// SortByRarity returns a copy ordered Legendary first. Equal rarities keep their order.
func SortByRarity(items []domain.Item) []domain.Item {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b domain.Item) int {
		return b.Rarity.Rank() - a.Rarity.Rank()
	})
	return sorted
}
