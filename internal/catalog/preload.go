package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmcdole/gw2catalog/internal/domain"
	"github.com/mmcdole/gw2catalog/internal/preload"
)

// PreloadItems loads every item id into the cache and the loaded map. The
// priming batches run before it returns; the rest continue in the
// background until ctx ends or StopPreload. A run already in progress is
// left alone.
func (c *Catalog) PreloadItems(ctx context.Context) error {
	return ignoreRunning(c.itemLoader.Start(ctx))
}

// PreloadRecipes walks every recipe id, caching each recipe with its
// output item and that item's price.
func (c *Catalog) PreloadRecipes(ctx context.Context) error {
	return ignoreRunning(c.recipeLoader.Start(ctx))
}

// PreloadProgress returns item then recipe loader snapshots
func (c *Catalog) PreloadProgress() []domain.LoadProgress {
	return []domain.LoadProgress{c.itemLoader.Progress(), c.recipeLoader.Progress()}
}

// OnPreloadProgress registers callbacks for both loaders. Either may be nil.
func (c *Catalog) OnPreloadProgress(items, recipes domain.ProgressFunc) {
	c.itemLoader.OnProgress(items)
	c.recipeLoader.OnProgress(recipes)
}

// WaitPreload blocks until both loaders have finished their current run
func (c *Catalog) WaitPreload() {
	c.itemLoader.Wait()
	c.recipeLoader.Wait()
}

// StopPreload cancels both loaders and waits for them to exit.
func (c *Catalog) StopPreload() {
	c.itemLoader.Stop()
	c.recipeLoader.Stop()
}

// StartTrimming caps the cache periodically until Close.
func (c *Catalog) StartTrimming(ctx context.Context) {
	c.trimmer.Start(ctx)
}

// TrimCache runs one capping pass and returns the evicted record count
func (c *Catalog) TrimCache() int {
	return c.trimmer.TrimNow()
}

func (c *Catalog) loadItemBatch(ctx context.Context, batch []int) error {
	items, err := c.items.getMany(ctx, batch)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	c.state.MergeItems(items)
	return err
}

func (c *Catalog) loadRecipeBatch(ctx context.Context, batch []int) error {
	recipes, err := c.recipes.getMany(ctx, batch)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if len(recipes) == 0 {
		return errors.Join(err, fmt.Errorf("no recipes resolved for batch starting at %d", batch[0]))
	}

	outputs := make([]int, 0, len(recipes))
	for _, r := range recipes {
		if r.OutputItemID > 0 {
			outputs = append(outputs, r.OutputItemID)
		}
	}
	outputs = uniqueIDs(outputs)

	items, itemErr := c.items.getMany(ctx, outputs)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	c.state.MergeItems(items)

	_, priceErr := c.prices.getMany(ctx, outputs)
	return errors.Join(err, itemErr, priceErr)
}

func ignoreRunning(err error) error {
	if errors.Is(err, preload.ErrAlreadyRunning) {
		return nil
	}
	return err
}
