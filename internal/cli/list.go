package cli

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mmcdole/gw2catalog/internal/catalog"
	"github.com/mmcdole/gw2catalog/internal/domain"
	"github.com/mmcdole/gw2catalog/internal/tui/styles"
)

// ListCmd returns the list command
func ListCmd() *cobra.Command {
	var (
		page     int
		pageSize int
		query    string
		rarities []string
		minLevel int
		maxLevel int
	)

	cmd := &cobra.Command{
		Use:   "list [category]",
		Short: "List a category, rarest first",
		Long: `List a category, rarest first.

The category is an item type (Weapon, Armor, Consumable, CraftingMaterial,
Trinket, ...) or "all". Weapon, Armor and Consumable also match by keyword.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runE(func(ctx context.Context, app *App, args []string) error {
			category := catalog.CategoryAll
			if len(args) == 1 {
				category = args[0]
			}

			var filters domain.FilterParams
			filters.Search = query
			for _, r := range rarities {
				filters.Rarities = append(filters.Rarities, domain.Rarity(r))
			}
			if minLevel > 0 {
				filters.MinLevel = &minLevel
			}
			if maxLevel > 0 {
				filters.MaxLevel = &maxLevel
			}

			result, err := app.Catalog.ListByCategory(ctx, category, page, pageSize, filters)
			if err != nil {
				return fmt.Errorf("failed to list %s: %w", category, err)
			}
			if err := writeItems(app.Out, result.Items, nil); err != nil {
				return err
			}

			more := ""
			if result.HasMore {
				more = fmt.Sprintf(", next: --page %d", page+1)
			}
			fmt.Fprintf(app.Out, "\n%s\n", dim(fmt.Sprintf("page %d, %s matching%s",
				page, humanize.Comma(int64(result.TotalCount)), more)))
			return nil
		}),
	}

	cmd.Flags().IntVarP(&page, "page", "p", 0, "Page number, starting at 0")
	cmd.Flags().IntVar(&pageSize, "page-size", 50, "Items per page")
	cmd.Flags().StringVarP(&query, "search", "s", "", "Match name, description or type")
	cmd.Flags().StringSliceVarP(&rarities, "rarity", "r", nil, "Only these rarities (repeatable)")
	cmd.Flags().IntVar(&minLevel, "min-level", 0, "Minimum required level")
	cmd.Flags().IntVar(&maxLevel, "max-level", 0, "Maximum required level")

	return cmd
}

// SearchCmd returns the search command
func SearchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Fuzzy search item names already in the cache",
		Long: `Fuzzy search item names already in the cache.

Only cached items are searched. Run "gw2catalog preload items" first for
full coverage.`,
		Args: cobra.ExactArgs(1),
		RunE: runE(func(ctx context.Context, app *App, args []string) error {
			results := app.Catalog.Search(args[0], limit)
			if len(results) == 0 {
				fmt.Fprintf(app.Out, "No cached items match %q\n", args[0])
				return nil
			}

			tw := newTable(app.Out)
			fmt.Fprintln(tw, "ID\tNAME\tRARITY\tLEVEL")
			for _, r := range results {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", r.Item.ID,
					styles.RenderItemName(r.Item.Name, r.Item.Rarity, r.MatchedIndexes),
					r.Item.Rarity, r.Item.Level)
			}
			return tw.Flush()
		}),
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum results")

	return cmd
}
