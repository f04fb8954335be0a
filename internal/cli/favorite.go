package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// FavoriteCmd returns the favorite command
func FavoriteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorite",
		Short: "Manage favorite items",
		Long:  `Favorites are stored in the cache file and survive clearing collections.`,
	}

	cmd.AddCommand(favoriteListCmd())
	cmd.AddCommand(favoriteEditCmd("add", "Mark items as favorites"))
	cmd.AddCommand(favoriteEditCmd("remove", "Unmark favorite items"))
	cmd.AddCommand(favoriteEditCmd("toggle", "Flip the favorite mark of items"))

	return cmd
}

func favoriteListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List favorite items",
		Args:  cobra.NoArgs,
		RunE: runE(func(ctx context.Context, app *App, args []string) error {
			items, err := app.Catalog.FavoriteItems(ctx)
			if err != nil {
				return fmt.Errorf("failed to list favorites: %w", err)
			}
			if len(items) == 0 {
				fmt.Fprintln(app.Out, "No favorites yet")
				return nil
			}
			return writeItems(app.Out, items, nil)
		}),
	}
}

func favoriteEditCmd(action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " [id...]",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: runE(func(ctx context.Context, app *App, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}

			for _, id := range ids {
				switch action {
				case "add":
					err = app.Catalog.AddFavorite(id)
					if err == nil {
						fmt.Fprintf(app.Out, "%s Added %d\n", okMark, id)
					}
				case "remove":
					err = app.Catalog.RemoveFavorite(id)
					if err == nil {
						fmt.Fprintf(app.Out, "%s Removed %d\n", okMark, id)
					}
				case "toggle":
					var on bool
					on, err = app.Catalog.ToggleFavorite(id)
					if err == nil {
						state := "off"
						if on {
							state = "on"
						}
						fmt.Fprintf(app.Out, "%s %d is %s\n", okMark, id, state)
					}
				}
				if err != nil {
					return fmt.Errorf("failed to %s favorite %d: %w", action, id, err)
				}
			}
			return nil
		}),
	}
}
