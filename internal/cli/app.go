package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/mmcdole/gw2catalog/internal/catalog"
	"github.com/mmcdole/gw2catalog/internal/config"
	"github.com/mmcdole/gw2catalog/internal/gw2"
	"github.com/mmcdole/gw2catalog/internal/store"
)

// App is the wiring shared by every command invocation
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Client  *gw2.Client
	Store   *store.CacheStore
	Catalog *catalog.Catalog
	Out     io.Writer
}

// openApp loads configuration and opens the cache for one command.
func openApp(cmd *cobra.Command) (*App, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := config.SetupLogger(&cfg.Logging, cfg.API.BaseURL)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = config.NullLogger()
	}
	slog.SetDefault(logger)

	memo := gw2.NewRequestCache(cfg.API.MemoSize, cfg.API.MemoTTL)
	opts := []gw2.Option{
		gw2.WithBaseURL(cfg.API.BaseURL),
		gw2.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		gw2.WithLogger(config.Component(logger, "gw2")),
		gw2.WithRequestCache(memo),
		gw2.WithMaxIDsPerRequest(cfg.API.MaxIDsPerRequest),
	}
	if cfg.API.RequestsPerSecond > 0 {
		opts = append(opts, gw2.WithRateLimit(cfg.API.RequestsPerSecond, cfg.API.Burst))
	}
	client := gw2.NewClient(opts...)

	cacheDir, err := config.ExpandHome(cfg.Cache.Dir)
	if err != nil {
		return nil, err
	}
	st, err := store.NewCacheStore(cacheDir, cfg.API.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	logger.Debug("opened cache", "path", st.Path())

	cat := catalog.New(client, st,
		catalog.WithLogger(config.Component(logger, "catalog")),
		catalog.WithState(catalog.NewState(memo)),
		catalog.WithConfig(cfg.Catalog()),
	)
	cat.StartTrimming(cmd.Context())

	return &App{
		Config:  cfg,
		Logger:  logger,
		Client:  client,
		Store:   st,
		Catalog: cat,
		Out:     cmd.OutOrStdout(),
	}, nil
}

// Close stops background work, trims the cache and closes the store.
func (a *App) Close() {
	a.Catalog.Close()
	if err := a.Store.Close(); err != nil {
		a.Logger.Error("failed to close cache", "error", err)
	}
}

// runE adapts a catalog command to cobra, opening and closing the app around it.
func runE(fn func(ctx context.Context, app *App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()
		return fn(cmd.Context(), app, args)
	}
}
