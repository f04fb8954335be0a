package cli

import (
	"github.com/spf13/cobra"
)

// RootCmd returns the gw2catalog command tree
func RootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "gw2catalog",
		Short:   "Cached Guild Wars 2 item, recipe and price lookups",
		Version: version,
		Long: `gw2catalog looks up Guild Wars 2 items, recipes and trading post prices,
keeping a local cache so repeated lookups work offline.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default ~/.config/gw2catalog/config.yaml)")

	// Lookups
	rootCmd.AddCommand(ItemCmd())
	rootCmd.AddCommand(ItemsCmd())
	rootCmd.AddCommand(BrowseCmd())
	rootCmd.AddCommand(PriceCmd())
	rootCmd.AddCommand(RecipeCmd())
	rootCmd.AddCommand(CraftCmd())
	rootCmd.AddCommand(CompareCmd())
	rootCmd.AddCommand(PopularCmd())
	rootCmd.AddCommand(ListCmd())
	rootCmd.AddCommand(SearchCmd())
	rootCmd.AddCommand(FavoriteCmd())
	rootCmd.AddCommand(ExploreCmd())

	// Cache management
	rootCmd.AddCommand(StatsCmd())
	rootCmd.AddCommand(ClearCmd())
	rootCmd.AddCommand(PreloadCmd())
	rootCmd.AddCommand(ConfigCmd())

	return rootCmd
}
