package catalog

import (
	"fmt"
	"time"

	"github.com/mmcdole/gw2catalog/internal/domain"
)

// Stats summarises the persistent cache. Unreadable collections report zero.
func (c *Catalog) Stats() domain.CacheStats {
	stats := domain.CacheStats{LastUpdated: make(map[domain.Collection]time.Time)}

	for _, col := range domain.Collections {
		n, err := c.store.Count(col)
		meta, ok, metaErr := c.store.Metadata(col)
		if err != nil {
			c.logger.Warn("failed to count collection", "error", err, "collection", col)
			if metaErr == nil && ok {
				n = meta.Count
			}
		}
		if metaErr == nil && ok && !meta.Value.IsZero() {
			stats.LastUpdated[col] = meta.Value
		}

		switch col {
		case domain.CollectionItems:
			stats.Items = n
		case domain.CollectionRecipes:
			stats.Recipes = n
		case domain.CollectionPrices:
			stats.Prices = n
		}
	}
	return stats
}

// ClearCache empties one collection, or every collection when c is nil,
// and resets all in-memory state.
func (c *Catalog) ClearCache(col *domain.Collection) error {
	defer c.state.ResetAll()

	if col == nil {
		if err := c.store.ClearAll(); err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}
		c.logger.Info("cleared cache")
		return nil
	}
	if err := c.store.Clear(*col); err != nil {
		return fmt.Errorf("clear %s: %w", *col, err)
	}
	c.logger.Info("cleared cache", "collection", *col)
	return nil
}
