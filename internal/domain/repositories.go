package domain

import (
	"context"
)

// RemoteSource provides read access to the game data API.
//
// Recipe and price methods never fail on absence or transport errors: list
// methods return an empty slice and single lookups return their absent
// variant. Item methods surface errors.
type RemoteSource interface {
	// ItemIDs returns every item ID known to the API
	ItemIDs(ctx context.Context) ([]int, error)

	// Item returns one item or an error wrapping ErrNotFound
	Item(ctx context.Context, id int) (Item, error)

	// Items returns the resolvable items, chunked under the per-request cap.
	// A failed chunk is skipped and its error joined into the result error.
	Items(ctx context.Context, ids []int) ([]Item, error)

	// ItemsPage returns one page of the full item listing
	ItemsPage(ctx context.Context, page, pageSize int) ([]Item, error)

	RecipeIDs(ctx context.Context) ([]int, error)

	// Recipe reports found=false for a missing or unreachable recipe
	Recipe(ctx context.Context, id int) (Recipe, bool, error)

	Recipes(ctx context.Context, ids []int) ([]Recipe, error)

	// SearchRecipesByOutput returns the IDs of recipes producing itemID
	SearchRecipesByOutput(ctx context.Context, itemID int) ([]int, error)

	// Price returns EmptyPrice(id) when no quote is available
	Price(ctx context.Context, id int) (ItemPrice, error)

	Prices(ctx context.Context, ids []int) ([]ItemPrice, error)
}
