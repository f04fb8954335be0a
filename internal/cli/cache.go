package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/mmcdole/gw2catalog/internal/domain"
	"github.com/mmcdole/gw2catalog/internal/tui"
)

// StatsCmd returns the stats command
func StatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache counts and freshness",
		Args:  cobra.NoArgs,
		RunE: runE(func(ctx context.Context, app *App, args []string) error {
			stats := app.Catalog.Stats()
			counts := map[domain.Collection]int{
				domain.CollectionItems:   stats.Items,
				domain.CollectionRecipes: stats.Recipes,
				domain.CollectionPrices:  stats.Prices,
			}

			tw := newTable(app.Out)
			fmt.Fprintln(tw, "COLLECTION\tRECORDS\tUPDATED")
			for _, c := range domain.Collections {
				updated := dim("never")
				if t, ok := stats.LastUpdated[c]; ok {
					updated = humanize.Time(t)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", c, humanize.Comma(int64(counts[c])), updated)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if fi, err := os.Stat(app.Store.Path()); err == nil {
				fmt.Fprintf(app.Out, "\n%s\n", dim(fmt.Sprintf("%s (%s)", app.Store.Path(), humanize.Bytes(uint64(fi.Size())))))
			}
			return nil
		}),
	}
}

// ClearCmd returns the clear command
func ClearCmd() *cobra.Command {
	var favorites bool

	cmd := &cobra.Command{
		Use:   "clear [items|recipes|prices]",
		Short: "Clear one collection, or the whole cache",
		Args:  cobra.MaximumNArgs(1),
		RunE: runE(func(ctx context.Context, app *App, args []string) error {
			var target *domain.Collection
			label := "cache"
			if len(args) == 1 {
				c, err := domain.ParseCollection(args[0])
				if err != nil {
					return err
				}
				target = &c
				label = string(c)
			}

			if err := app.Catalog.ClearCache(target); err != nil {
				return fmt.Errorf("failed to clear %s: %w", label, err)
			}
			if favorites {
				if err := app.Store.ClearFavorites(); err != nil {
					return fmt.Errorf("failed to clear favorites: %w", err)
				}
			}

			fmt.Fprintf(app.Out, "%s Cleared %s\n", okMark, label)
			return nil
		}),
	}

	cmd.Flags().BoolVar(&favorites, "favorites", false, "Also clear favorites")

	return cmd
}

// PreloadCmd returns the preload command
func PreloadCmd() *cobra.Command {
	var (
		metricsAddr string
		plain       bool
	)

	cmd := &cobra.Command{
		Use:   "preload [items|recipes|all]",
		Short: "Load the full catalog into the cache",
		Long: `Load the full catalog into the cache.

Items load in batches of 200 ids. Recipes load with their output items and
prices. Press q to stop; everything loaded so far stays cached.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"items", "recipes", "all"},
		RunE: runE(func(ctx context.Context, app *App, args []string) error {
			what := "all"
			if len(args) == 1 {
				what = args[0]
			}
			if what != "items" && what != "recipes" && what != "all" {
				return fmt.Errorf("unknown preload target %q", what)
			}

			if metricsAddr != "" {
				srv := serveMetrics(app, metricsAddr)
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
					defer cancel()
					_ = srv.Shutdown(shutdownCtx)
				}()
			}

			interactive := !plain && tui.IsTerminal(os.Stdout)
			if !interactive {
				var mu sync.Mutex
				app.Catalog.OnPreloadProgress(
					plainProgress(&mu, app.Out, "items"),
					plainProgress(&mu, app.Out, "recipes"),
				)
			}

			started := time.Now()
			if what != "recipes" {
				if err := app.Catalog.PreloadItems(ctx); err != nil {
					return fmt.Errorf("failed to preload items: %w", err)
				}
			}
			if what != "items" {
				if err := app.Catalog.PreloadRecipes(ctx); err != nil {
					return fmt.Errorf("failed to preload recipes: %w", err)
				}
			}

			if interactive {
				stopped, err := tui.RunPreload(ctx, app.Catalog, app.Catalog.StopPreload)
				if err != nil {
					return err
				}
				if stopped {
					fmt.Fprintf(app.Out, "%s Preload stopped\n", warnMark)
					return nil
				}
			} else {
				app.Catalog.WaitPreload()
			}
			if errors.Is(ctx.Err(), context.Canceled) {
				fmt.Fprintf(app.Out, "%s Preload interrupted\n", warnMark)
				return nil
			}

			for _, p := range app.Catalog.PreloadProgress() {
				if p.State == domain.LoadIdle {
					continue
				}
				line := fmt.Sprintf("%s %s: %s of %s", okMark, p.Name,
					humanize.Comma(int64(p.Loaded)), humanize.Comma(int64(p.Total)))
				if p.Failed > 0 {
					line += fmt.Sprintf(" (%d failed batches)", p.Failed)
				}
				fmt.Fprintln(app.Out, line)
			}
			fmt.Fprintf(app.Out, "%s\n", dim("took "+time.Since(started).Round(time.Second).String()))
			return nil
		}),
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while loading")
	cmd.Flags().BoolVar(&plain, "plain", false, "Print progress lines instead of the progress view")

	return cmd
}

// plainProgress prints a line roughly every tenth of the way
func plainProgress(mu *sync.Mutex, w io.Writer, name string) domain.ProgressFunc {
	step := 0
	return func(loaded, total int) {
		mu.Lock()
		defer mu.Unlock()
		if total <= 0 {
			return
		}
		next := loaded * 10 / total
		if next <= step && loaded < total {
			return
		}
		step = next
		fmt.Fprintf(w, "  %s %s / %s\n", name,
			humanize.Comma(int64(loaded)), humanize.Comma(int64(total)))
	}
}

func serveMetrics(app *App, addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.Logger.Error("metrics server failed", "error", err, "addr", addr)
		}
	}()
	app.Logger.Info("serving metrics", "addr", addr)
	return srv
}
