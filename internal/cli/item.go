package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmcdole/gw2catalog/internal/domain"
)

// ItemCmd returns the item command
func ItemCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "item [id]",
		Short: "Show one item with its trading post quote",
		Args:  cobra.ExactArgs(1),
		RunE: runE(func(ctx context.Context, app *App, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}

			item, err := app.Catalog.Item(ctx, ids[0])
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("item %d not found", ids[0])
			}
			if err != nil {
				return fmt.Errorf("failed to get item: %w", err)
			}
			price, err := app.Catalog.Price(ctx, item.ID)
			if err != nil {
				app.Logger.Warn("failed to get price", "error", err, "item_id", item.ID)
			}

			w := app.Out
			star := ""
			if app.Catalog.IsFavorite(item.ID) {
				star = " " + gold("★")
			}
			fmt.Fprintf(w, "%s [%d]%s\n", rarityName(item), item.ID, star)
			fmt.Fprintf(w, "  Rarity:  %s\n", item.Rarity)
			fmt.Fprintf(w, "  Type:    %s\n", item.Type)
			fmt.Fprintf(w, "  Level:   %d\n", item.Level)
			writeDetails(w, item)
			fmt.Fprintf(w, "  Vendor:  %s\n", formatCoins(item.VendorValue))
			if price.HasTradingData() {
				fmt.Fprintf(w, "  Buy:     %s (%d orders)\n", formatCoins(price.Buys.UnitPrice), price.Buys.Quantity)
				fmt.Fprintf(w, "  Sell:    %s (%d listings)\n", formatCoins(price.Sells.UnitPrice), price.Sells.Quantity)
			} else {
				fmt.Fprintf(w, "  %s\n", dim("not traded"))
			}
			if item.Description != "" {
				fmt.Fprintf(w, "\n  %s\n", dim(item.Description))
			}
			return nil
		}),
	}
}

// ItemsCmd returns the items command
func ItemsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "items [id...]",
		Short: "List items by id",
		Long:  "List items by id. Ids missing from the API are skipped.",
		Args:  cobra.MinimumNArgs(1),
		RunE: runE(func(ctx context.Context, app *App, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			items := app.Catalog.Items(ctx, ids)
			if len(items) < len(ids) {
				fmt.Fprintf(app.Out, "%s %d of %d items found\n", warnMark, len(items), len(ids))
			}
			return writeItems(app.Out, items, nil)
		}),
	}
}

// BrowseCmd returns the browse command
func BrowseCmd() *cobra.Command {
	var (
		page     int
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Page through the full item listing in id order",
		Args:  cobra.NoArgs,
		RunE: runE(func(ctx context.Context, app *App, args []string) error {
			items, err := app.Catalog.BrowsePage(ctx, page, pageSize)
			if err != nil {
				return fmt.Errorf("failed to browse page %d: %w", page, err)
			}
			if len(items) == 0 {
				fmt.Fprintf(app.Out, "Page %d is empty\n", page)
				return nil
			}
			return writeItems(app.Out, items, nil)
		}),
	}

	cmd.Flags().IntVarP(&page, "page", "p", 0, "Page number, starting at 0")
	cmd.Flags().IntVar(&pageSize, "page-size", 50, "Items per page (at most 200)")

	return cmd
}

// PriceCmd returns the price command
func PriceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "price [id...]",
		Short: "Show trading post quotes",
		Args:  cobra.MinimumNArgs(1),
		RunE: runE(func(ctx context.Context, app *App, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			prices := app.Catalog.Prices(ctx, ids)

			tw := newTable(app.Out)
			fmt.Fprintln(tw, "ID\tBUY\tQTY\tSELL\tQTY")
			for _, p := range prices {
				if !p.HasTradingData() {
					fmt.Fprintf(tw, "%d\t%s\t\t\t\n", p.ID, dim("not traded"))
					continue
				}
				fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%d\n", p.ID,
					formatCoins(p.Buys.UnitPrice), p.Buys.Quantity,
					formatCoins(p.Sells.UnitPrice), p.Sells.Quantity)
			}
			return tw.Flush()
		}),
	}
}

// CompareCmd returns the compare command
func CompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare [id...]",
		Short: "Compare items side by side with their quotes",
		Args:  cobra.MinimumNArgs(2),
		RunE: runE(func(ctx context.Context, app *App, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			rows := app.Catalog.Compare(ctx, ids)

			items := make([]domain.Item, 0, len(rows))
			prices := make(map[int]domain.ItemPrice, len(rows))
			for _, r := range rows {
				items = append(items, r.Item)
				prices[r.Item.ID] = r.Price
			}
			return writeItems(app.Out, items, prices)
		}),
	}
}

// PopularCmd returns the popular command
func PopularCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "popular",
		Short: "Show the curated popular items",
		Args:  cobra.NoArgs,
		RunE: runE(func(ctx context.Context, app *App, args []string) error {
			return writeItems(app.Out, app.Catalog.PopularItems(ctx), nil)
		}),
	}
}
