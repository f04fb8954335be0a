package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmcdole/gw2catalog/internal/domain"
)

// RecipeCmd returns the recipe command
func RecipeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recipe [item-id]",
		Short: "Show the recipes that craft an item",
		Args:  cobra.ExactArgs(1),
		RunE: runE(func(ctx context.Context, app *App, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}

			recipes := app.Catalog.RecipesForItem(ctx, ids[0])
			if len(recipes) == 0 {
				fmt.Fprintf(app.Out, "No recipes craft item %d\n", ids[0])
				return nil
			}

			for _, r := range recipes {
				fmt.Fprintf(app.Out, "Recipe %d: %s ×%d\n", r.ID, r.Type, r.OutputItemCount)
				fmt.Fprintf(app.Out, "  %s\n", dim(fmt.Sprintf("%s, rating %d, %s",
					strings.Join(r.Disciplines, "/"), r.MinRating,
					(time.Duration(r.TimeToCraftMS)*time.Millisecond).String())))

				inputs := make([]int, 0, len(r.Ingredients))
				for _, ing := range r.Ingredients {
					inputs = append(inputs, ing.ItemID)
				}
				names := make(map[int]domain.Item, len(inputs))
				for _, it := range app.Catalog.Items(ctx, inputs) {
					names[it.ID] = it
				}
				for _, ing := range r.Ingredients {
					label := fmt.Sprintf("item %d", ing.ItemID)
					if it, ok := names[ing.ItemID]; ok {
						label = rarityName(it)
					}
					fmt.Fprintf(app.Out, "  %4d × %s\n", ing.Count, label)
				}
			}
			return nil
		}),
	}
}

// CraftCmd returns the craft command
func CraftCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "craft [item-id]",
		Short: "Price the ingredients of an item's first recipe",
		Long: `Price the ingredients of an item's first recipe.

Each ingredient uses its trading post sell price, or its vendor value when
it is not traded.`,
		Args: cobra.ExactArgs(1),
		RunE: runE(func(ctx context.Context, app *App, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}

			cost, err := app.Catalog.CraftCost(ctx, ids[0])
			if errors.Is(err, domain.ErrNotCraftable) {
				fmt.Fprintf(app.Out, "%s item %d has no recipe\n", warnMark, ids[0])
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to price recipe: %w", err)
			}

			tw := newTable(app.Out)
			fmt.Fprintln(tw, "COUNT\tINGREDIENT\tUNIT\tTOTAL\tSOURCE")
			for _, line := range cost.Ingredients {
				source := "trading post"
				if !line.FromTP {
					source = "vendor"
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", line.Count, line.Item.Name,
					formatCoins(line.UnitPrice), formatCoins(line.Total()), source)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "\nRecipe %d makes %d for %s\n",
				cost.Recipe.ID, cost.Recipe.OutputItemCount, gold(formatCoins(cost.Total)))
			return nil
		}),
	}
}
