package catalog

import (
	"context"
	"fmt"

	"github.com/mmcdole/gw2catalog/internal/domain"
)

const (
	syntheticRecipeStart = 1000
	syntheticRecipeCount = 500
)

// Recipe returns one recipe; a missing recipe wraps domain.ErrNotFound.
func (c *Catalog) Recipe(ctx context.Context, id int) (domain.Recipe, error) {
	return c.recipes.get(ctx, id)
}

// Recipes resolves ids in input order. Unresolvable ids are dropped.
func (c *Catalog) Recipes(ctx context.Context, ids []int) []domain.Recipe {
	recipes, _ := c.recipes.getMany(ctx, ids)
	return recipes
}

// RecipeIDs returns cached ids while recipes are fresh, otherwise the remote
// list. Without either it falls back to stale cached ids, then to a
// synthetic range so the recipe preloader always has work.
func (c *Catalog) RecipeIDs(ctx context.Context) []int {
	cached, err := c.store.IDs(domain.CollectionRecipes)
	if err != nil {
		c.logger.Warn("failed to read cached recipe ids", "error", err)
	}
	if len(cached) > 0 && !c.staleness.IsStale(domain.CollectionRecipes, c.cfg.RecipeMaxAge) {
		return cached
	}

	ids, err := c.remote.RecipeIDs(ctx)
	if err == nil && len(ids) > 0 {
		return ids
	}
	if len(cached) > 0 {
		return cached
	}

	c.logger.Warn("no recipe ids available, using synthetic range", "start", syntheticRecipeStart, "count", syntheticRecipeCount)
	synthetic := make([]int, syntheticRecipeCount)
	for i := range synthetic {
		synthetic[i] = syntheticRecipeStart + i
	}
	return synthetic
}

// RecipesForItem returns every recipe producing itemID
func (c *Catalog) RecipesForItem(ctx context.Context, itemID int) []domain.Recipe {
	ids, err := c.remote.SearchRecipesByOutput(ctx, itemID)
	if err != nil || len(ids) == 0 {
		return []domain.Recipe{}
	}
	return c.Recipes(ctx, ids)
}

// CraftCost prices the first recipe producing itemID from its ingredients:
// the trading post sell price when listed, the vendor value otherwise.
func (c *Catalog) CraftCost(ctx context.Context, itemID int) (domain.CraftCost, error) {
	ids, err := c.remote.SearchRecipesByOutput(ctx, itemID)
	if err != nil {
		return domain.CraftCost{}, err
	}
	if len(ids) == 0 {
		return domain.CraftCost{}, fmt.Errorf("item %d: %w", itemID, domain.ErrNotCraftable)
	}

	recipe, err := c.Recipe(ctx, ids[0])
	if err != nil {
		return domain.CraftCost{}, fmt.Errorf("item %d recipe %d: %w", itemID, ids[0], err)
	}

	ingredientIDs := make([]int, len(recipe.Ingredients))
	for i, ing := range recipe.Ingredients {
		ingredientIDs[i] = ing.ItemID
	}
	items := make(map[int]domain.Item, len(ingredientIDs))
	for _, item := range c.Items(ctx, ingredientIDs) {
		items[item.ID] = item
	}
	prices := make(map[int]domain.ItemPrice, len(ingredientIDs))
	for _, p := range c.Prices(ctx, ingredientIDs) {
		prices[p.ID] = p
	}

	cost := domain.CraftCost{Recipe: recipe}
	for _, ing := range recipe.Ingredients {
		item, ok := items[ing.ItemID]
		if !ok {
			item = domain.Item{ID: ing.ItemID}
		}
		line := domain.IngredientCost{Item: item, Count: ing.Count}
		if sell := prices[ing.ItemID].Sells.UnitPrice; sell > 0 {
			line.UnitPrice = sell
			line.FromTP = true
		} else {
			line.UnitPrice = item.VendorValue
		}
		cost.Ingredients = append(cost.Ingredients, line)
		cost.Total += line.Total()
	}
	return cost, nil
}

// recipeIDsForPreload adapts RecipeIDs to the loader
func (c *Catalog) recipeIDsForPreload(ctx context.Context) ([]int, error) {
	ids := c.RecipeIDs(ctx)
	return ids, ctx.Err()
}
