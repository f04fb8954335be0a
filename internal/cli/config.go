package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mmcdole/gw2catalog/internal/config"
)

// ConfigCmd returns the config command
func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the configuration file",
	}

	cmd.AddCommand(configInitCmd())
	cmd.AddCommand(configShowCmd())

	return cmd
}

func configFilePath(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path
	}
	return filepath.Join(config.DefaultConfigPath(), "config.yaml")
}

func configInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configFilePath(cmd)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("failed to check %s: %w", path, err)
			}

			if err := config.SaveConfig(config.DefaultConfig(), path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %s\n", okMark, path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			cfg, err := config.LoadConfig(path)
			if err != nil {
				return err
			}

			tw := newTable(cmd.OutOrStdout())
			rows := []struct {
				key   string
				value any
			}{
				{"api.base_url", cfg.API.BaseURL},
				{"api.timeout", cfg.API.Timeout},
				{"api.max_ids_per_request", cfg.API.MaxIDsPerRequest},
				{"api.requests_per_second", cfg.API.RequestsPerSecond},
				{"api.burst", cfg.API.Burst},
				{"api.memo_size", cfg.API.MemoSize},
				{"api.memo_ttl", cfg.API.MemoTTL},
				{"cache.dir", cfg.Cache.Dir},
				{"cache.max_entries", cfg.Cache.MaxEntries},
				{"cache.ceiling", cfg.Cache.Ceiling},
				{"cache.trim_interval", cfg.Cache.TrimInterval},
				{"cache.price_max_age", cfg.Cache.PriceMaxAge},
				{"cache.recipe_max_age", cfg.Cache.RecipeMaxAge},
				{"preload.item_batch_size", cfg.Preload.ItemBatchSize},
				{"preload.item_prime_batches", cfg.Preload.ItemPrimeBatches},
				{"preload.item_delay", cfg.Preload.ItemDelay},
				{"preload.item_failure_delay", cfg.Preload.ItemFailureDelay},
				{"preload.recipe_batch_size", cfg.Preload.RecipeBatchSize},
				{"preload.recipe_delay", cfg.Preload.RecipeDelay},
				{"preload.recipe_failure_delay", cfg.Preload.RecipeFailureDelay},
				{"logging.file", cfg.Logging.File},
				{"logging.level", cfg.Logging.Level},
				{"logging.format", cfg.Logging.Format},
			}
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%v\n", r.key, r.value)
			}
			return tw.Flush()
		},
	}
}
