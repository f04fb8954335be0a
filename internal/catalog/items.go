package catalog

import (
	"context"
	"errors"

	"github.com/mmcdole/gw2catalog/internal/domain"
	"github.com/mmcdole/gw2catalog/internal/search"
	"github.com/mmcdole/gw2catalog/internal/store"
)

// Item returns one item. Errors wrap domain.ErrNotFound or domain.ErrRemoteUnavailable.
func (c *Catalog) Item(ctx context.Context, id int) (domain.Item, error) {
	return c.items.get(ctx, id)
}

// Items resolves ids in input order. Unresolvable ids are dropped.
func (c *Catalog) Items(ctx context.Context, ids []int) []domain.Item {
	items, _ := c.items.getMany(ctx, ids)
	return items
}

// ItemIDs returns every known item id, memoized for the life of the state.
// When the remote list cannot be fetched the curated seed ids are returned
// and nothing is memoized.
func (c *Catalog) ItemIDs(ctx context.Context) ([]int, error) {
	if ids, ok := c.state.ItemIDs(); ok {
		return ids, nil
	}

	ids, err := c.remote.ItemIDs(ctx)
	if err != nil || len(ids) == 0 {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn("failed to fetch item ids, using seed ids", "error", err)
		return allSeedIDs(), nil
	}

	c.state.SetItemIDs(ids)
	return ids, nil
}

// BrowsePage returns one zero-based page of the full remote item listing
// and writes it through. When the API cannot be reached the page is cut
// from the cached items in id order instead.
func (c *Catalog) BrowsePage(ctx context.Context, page, pageSize int) ([]domain.Item, error) {
	page = max(page, 0)
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	items, err := c.remote.ItemsPage(ctx, page, pageSize)
	if err == nil {
		c.items.save(ctx, items)
		c.state.MergeItems(items)
		return items, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	c.logger.Warn("failed to fetch item page, using cache", "error", err, "page", page)

	cached, cerr := store.AllRecords[domain.Item](c.store, domain.CollectionItems)
	if cerr != nil {
		return nil, errors.Join(err, cerr)
	}
	return paginate(cached, page, pageSize).Items, nil
}

// Search ranks loaded and cached items by name.
func (c *Catalog) Search(query string, limit int) []search.Result {
	return search.NewIndex(c.knownItems()).Find(query, limit)
}

// knownItems merges the loaded map with the persisted items
func (c *Catalog) knownItems() []domain.Item {
	items := c.state.LoadedItems()
	persisted, err := store.AllRecords[domain.Item](c.store, domain.CollectionItems)
	if err != nil {
		c.logger.Warn("failed to read cached items", "error", err)
		return items
	}
	return append(items, persisted...)
}

// PopularItems returns the head of each curated category, rarest first.
func (c *Catalog) PopularItems(ctx context.Context) []domain.Item {
	items := c.Items(ctx, popularIDs())
	if len(items) == 0 {
		return search.SortByRarity(fallbackItems())
	}
	return search.SortByRarity(items)
}

// Compare pairs each resolvable item with its quote, in input order.
func (c *Catalog) Compare(ctx context.Context, ids []int) []domain.Comparison {
	items := c.Items(ctx, ids)
	prices := make(map[int]domain.ItemPrice, len(items))
	for _, p := range c.Prices(ctx, ids) {
		prices[p.ID] = p
	}

	out := make([]domain.Comparison, 0, len(items))
	for _, item := range items {
		p, ok := prices[item.ID]
		if !ok {
			p = domain.EmptyPrice(item.ID)
		}
		out = append(out, domain.Comparison{Item: item, Price: p})
	}
	return out
}
