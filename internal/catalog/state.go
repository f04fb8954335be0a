package catalog

import (
	"slices"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mmcdole/gw2catalog/internal/domain"
)

const filterCacheSize = 256

// Resetter drops in-process memoized responses
type Resetter interface {
	Reset()
}

// State holds the in-memory data shared by listings and preloaders:
// every item loaded so far, the memoized item id list and filtered
// listing results.
type State struct {
	mu      sync.RWMutex
	loaded  map[int]domain.Item
	itemIDs []int

	filters *lru.Cache[string, []domain.Item]
	memo    Resetter
}

// NewState creates empty state. memo may be nil.
func NewState(memo Resetter) *State {
	filters, _ := lru.New[string, []domain.Item](filterCacheSize)
	return &State{
		loaded:  make(map[int]domain.Item),
		filters: filters,
		memo:    memo,
	}
}

// MergeItems adds items to the loaded map, replacing by id. Filter results
// computed before new ids arrived are dropped.
func (s *State) MergeItems(items []domain.Item) {
	if len(items) == 0 {
		return
	}
	s.mu.Lock()
	grew := false
	for _, item := range items {
		if _, ok := s.loaded[item.ID]; !ok {
			grew = true
		}
		s.loaded[item.ID] = item
	}
	s.mu.Unlock()

	if grew {
		s.filters.Purge()
	}
}

func (s *State) LoadedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.loaded)
}

// LoadedItems returns the loaded items in id order
func (s *State) LoadedItems() []domain.Item {
	s.mu.RLock()
	items := make([]domain.Item, 0, len(s.loaded))
	for _, item := range s.loaded {
		items = append(items, item)
	}
	s.mu.RUnlock()

	slices.SortFunc(items, func(a, b domain.Item) int { return a.ID - b.ID })
	return items
}

// ItemIDs returns the memoized id list
func (s *State) ItemIDs() ([]int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.itemIDs == nil {
		return nil, false
	}
	return slices.Clone(s.itemIDs), true
}

func (s *State) SetItemIDs(ids []int) {
	s.mu.Lock()
	s.itemIDs = slices.Clone(ids)
	s.mu.Unlock()
}

// Filtered returns a cached listing result
func (s *State) Filtered(key string) ([]domain.Item, bool) {
	return s.filters.Get(key)
}

func (s *State) StoreFiltered(key string, items []domain.Item) {
	s.filters.Add(key, items)
}

// ResetAll clears every in-memory structure, including the request memo.
func (s *State) ResetAll() {
	s.mu.Lock()
	s.loaded = make(map[int]domain.Item)
	s.itemIDs = nil
	s.mu.Unlock()

	s.filters.Purge()
	if s.memo != nil {
		s.memo.Reset()
	}
}
