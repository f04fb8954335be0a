package gw2

import (
	"context"
	"net/url"
	"strconv"

	"github.com/mmcdole/gw2catalog/internal/domain"
)

// soften records a recipe or price failure that is reported as absence.
func (c *Client) soften(path string, err error) {
	softenedTotal.WithLabelValues(endpointLabel(path)).Inc()
	c.logger.Warn("gw2 lookup softened to empty result", "endpoint", path, "error", err)
}

// RecipeIDs returns every recipe ID, or an empty list when the API fails.
func (c *Client) RecipeIDs(ctx context.Context) ([]int, error) {
	body, err := c.doRequest(ctx, "/recipes", nil)
	if err == nil {
		var ids []int
		ids, err = decodeBody[[]int]("/recipes", body)
		if err == nil {
			return ids, nil
		}
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	c.soften("/recipes", err)
	return []int{}, nil
}

// Recipe returns found=false for a missing recipe or any request failure.
func (c *Client) Recipe(ctx context.Context, id int) (domain.Recipe, bool, error) {
	path := "/recipes/" + strconv.Itoa(id)
	body, err := c.doRequest(ctx, path, nil)
	if err == nil {
		var r domain.Recipe
		r, err = decodeBody[domain.Recipe](path, body)
		if err == nil {
			return r, true, nil
		}
	}
	if ctx.Err() != nil {
		return domain.Recipe{}, false, ctx.Err()
	}
	c.soften(path, err)
	return domain.Recipe{}, false, nil
}

// Recipes returns the recipes that could be fetched. Failed chunks are
// dropped rather than reported.
func (c *Client) Recipes(ctx context.Context, ids []int) ([]domain.Recipe, error) {
	recipes, err := fetchChunked(ctx, ids, c.maxIDs, func(ctx context.Context, chunk []int) ([]domain.Recipe, error) {
		body, err := c.doRequest(ctx, "/recipes", idsQuery(chunk))
		if err != nil {
			return nil, err
		}
		return decodeBody[[]domain.Recipe]("/recipes", body)
	})
	if err != nil {
		if ctx.Err() != nil {
			return recipes, ctx.Err()
		}
		c.soften("/recipes", err)
	}
	if recipes == nil {
		recipes = []domain.Recipe{}
	}
	return recipes, nil
}

// SearchRecipesByOutput returns the IDs of recipes that produce itemID.
func (c *Client) SearchRecipesByOutput(ctx context.Context, itemID int) ([]int, error) {
	query := url.Values{"output": {strconv.Itoa(itemID)}}
	body, err := c.doRequest(ctx, "/recipes/search", query)
	if err == nil {
		var ids []int
		ids, err = decodeBody[[]int]("/recipes/search", body)
		if err == nil {
			return ids, nil
		}
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	c.soften("/recipes/search", err)
	return []int{}, nil
}
