package catalog

import (
	"context"
	"errors"
	"slices"

	"github.com/mmcdole/gw2catalog/internal/domain"
	"github.com/mmcdole/gw2catalog/internal/preload"
	"github.com/mmcdole/gw2catalog/internal/search"
)

const defaultPageSize = 50

// ListByCategory returns one zero-based page of a category listing, rarest
// first. Until enough items are loaded in memory it fetches a bounded number
// of batches itself and leaves the rest to the background item preloader.
// The returned error is only ever the context's; a page is always returned.
func (c *Catalog) ListByCategory(ctx context.Context, category string, page, pageSize int, filters domain.FilterParams) (domain.ItemPage, error) {
	if page < 0 {
		page = 0
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	if c.state.LoadedCount() == 0 {
		c.startItemPreload()
	}

	key := category + "|" + filters.Signature()
	if !filters.IsZero() {
		if cached, ok := c.state.Filtered(key); ok {
			return paginate(cached, page, pageSize), nil
		}
	}

	if c.state.LoadedCount() > c.cfg.LoadedThreshold {
		listed := c.filterAndSort(c.state.LoadedItems(), category, filters)
		c.state.StoreFiltered(key, listed)
		return paginate(listed, page, pageSize), nil
	}

	pool, err := c.loadCategory(ctx, category)
	if err != nil {
		c.logger.Error("failed to list category", "error", err, "category", category)
		fallback := FallbackItems(category)
		return domain.ItemPage{Items: fallback, TotalCount: len(fallback)}, ctx.Err()
	}

	listed := c.filterAndSort(pool, category, filters)
	c.state.StoreFiltered(key, listed)

	result := paginate(listed, page, pageSize)
	if len(result.Items) == 0 {
		result.Items = FallbackItems(category)
	}
	return result, nil
}

// loadCategory fetches up to ListMaxBatches batches of the category's ids
// into the loaded map and hands any remainder to the item preloader.
func (c *Catalog) loadCategory(ctx context.Context, category string) ([]domain.Item, error) {
	ids := SeedIDs(category)
	if ids == nil {
		var err error
		if ids, err = c.ItemIDs(ctx); err != nil {
			return nil, err
		}
	}

	limit := min(len(ids), c.cfg.ListBatchSize*c.cfg.ListMaxBatches)
	var pool []domain.Item
	for batch := range slices.Chunk(ids[:limit], c.cfg.ListBatchSize) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		items := c.Items(ctx, batch)
		c.state.MergeItems(items)
		pool = append(pool, items...)
	}

	if len(ids) > limit {
		c.startItemPreload()
	}
	return pool, nil
}

func (c *Catalog) filterAndSort(items []domain.Item, category string, filters domain.FilterParams) []domain.Item {
	inCategory := make([]domain.Item, 0, len(items))
	for _, item := range items {
		if InCategory(item, category) {
			inCategory = append(inCategory, item)
		}
	}
	return search.SortByRarity(search.Filter(inCategory, filters))
}

func paginate(items []domain.Item, page, pageSize int) domain.ItemPage {
	start := len(items)
	if page <= len(items)/pageSize {
		start = min(page*pageSize, len(items))
	}
	end := min(start+pageSize, len(items))
	return domain.ItemPage{
		Items:      slices.Clone(items[start:end]),
		TotalCount: len(items),
		HasMore:    end < len(items),
	}
}

// startItemPreload starts the item preloader in the background. The run
// is tied to the catalog's lifetime, not to ctx.
func (c *Catalog) startItemPreload() {
	if c.itemLoader.Progress().State.Running() {
		return
	}
	c.bg.Go(func() {
		err := c.itemLoader.Start(c.bgCtx)
		if err != nil && !errors.Is(err, preload.ErrAlreadyRunning) && !errors.Is(err, context.Canceled) {
			c.logger.Warn("failed to start item preload", "error", err)
		}
	})
}
