package catalog

import (
	"context"
	"errors"

	"github.com/mmcdole/gw2catalog/internal/domain"
)

// Price returns the quote for an item, or a placeholder when the item has
// no trading data and nothing usable is cached.
func (c *Catalog) Price(ctx context.Context, id int) (domain.ItemPrice, error) {
	p, err := c.prices.get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.EmptyPrice(id), nil
	}
	return p, err
}

// Prices returns one quote per requested id, in input order. Ids without
// trading data get a placeholder.
func (c *Catalog) Prices(ctx context.Context, ids []int) []domain.ItemPrice {
	found, _ := c.prices.getMany(ctx, ids)
	byID := make(map[int]domain.ItemPrice, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	out := make([]domain.ItemPrice, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		} else {
			out = append(out, domain.EmptyPrice(id))
		}
	}
	return out
}
