package catalog

import (
	"context"
	"fmt"

	"github.com/mmcdole/gw2catalog/internal/domain"
)

func (c *Catalog) AddFavorite(id int) error {
	if err := c.store.AddFavorite(id); err != nil {
		return fmt.Errorf("add favorite %d: %w", id, err)
	}
	return nil
}

func (c *Catalog) RemoveFavorite(id int) error {
	if err := c.store.RemoveFavorite(id); err != nil {
		return fmt.Errorf("remove favorite %d: %w", id, err)
	}
	return nil
}

// ToggleFavorite flips the favorite flag and returns the new value
func (c *Catalog) ToggleFavorite(id int) (bool, error) {
	fav, err := c.store.IsFavorite(id)
	if err != nil {
		return false, fmt.Errorf("toggle favorite %d: %w", id, err)
	}
	if fav {
		return false, c.RemoveFavorite(id)
	}
	return true, c.AddFavorite(id)
}

// IsFavorite reports false when the store cannot be read
func (c *Catalog) IsFavorite(id int) bool {
	fav, err := c.store.IsFavorite(id)
	if err != nil {
		c.logger.Warn("failed to read favorite", "error", err, "id", id)
		return false
	}
	return fav
}

// FavoriteItems resolves the favorites in the order they were added
func (c *Catalog) FavoriteItems(ctx context.Context) ([]domain.Item, error) {
	ids, err := c.store.Favorites()
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return c.Items(ctx, ids), nil
}
