package search

import (
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/gw2catalog/internal/domain"
)

// Result is a ranked match with the matched name positions for highlighting
type Result struct {
	Item           domain.Item
	MatchedIndexes []int
	Score          int // higher is better
}

// Index implements sahilm/fuzzy.Source over item names
type Index struct {
	items      []domain.Item
	lowerNames []string // Pre-computed lowercase names
}

// NewIndex builds an index, skipping duplicate IDs.
func NewIndex(items []domain.Item) *Index {
	idx := &Index{
		items:      make([]domain.Item, 0, len(items)),
		lowerNames: make([]string, 0, len(items)),
	}
	seen := make(map[int]bool, len(items))
	for _, item := range items {
		if seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		idx.items = append(idx.items, item)
		idx.lowerNames = append(idx.lowerNames, strings.ToLower(item.Name))
	}
	return idx
}

// String returns the lowercase name at index i (implements fuzzy.Source)
func (idx *Index) String(i int) string { return idx.lowerNames[i] }

// Len returns the number of items (implements fuzzy.Source)
func (idx *Index) Len() int { return len(idx.items) }

// Find ranks items whose names fuzzily match query. limit <= 0 returns all.
// Ties are broken by rarity, then shorter name.
func (idx *Index) Find(query string, limit int) []Result {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || idx.Len() == 0 {
		return nil
	}

	matches := fuzzy.FindFrom(query, idx)
	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = Result{
			Item:           idx.items[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	slices.SortStableFunc(results, func(a, b Result) int {
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		if ra, rb := a.Item.Rarity.Rank(), b.Item.Rarity.Rank(); ra != rb {
			return rb - ra
		}
		return len(a.Item.Name) - len(b.Item.Name)
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}
