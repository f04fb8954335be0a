package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmcdole/gw2catalog/internal/tui"
)

// ExploreCmd returns the explore command
func ExploreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explore",
		Short: "Browse the catalog interactively",
		Long: `Opens a full screen browser over item categories. Enter opens a category
or loads prices for an item, / filters the list, and f toggles a favorite.`,
		Args: cobra.NoArgs,
		RunE: runE(func(ctx context.Context, app *App, args []string) error {
			if !tui.IsTerminal(os.Stdout) {
				return errors.New("explore needs a terminal")
			}
			return tui.RunExplore(ctx, app.Catalog)
		}),
	}
}
