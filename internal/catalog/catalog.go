// Package catalog is the cache orchestrator: every read goes to the
// persistent store first and to the remote API for misses and stale data.
package catalog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mmcdole/gw2catalog/internal/domain"
	"github.com/mmcdole/gw2catalog/internal/preload"
)

const (
	DefaultPriceMaxAge  = time.Hour
	DefaultRecipeMaxAge = 24 * time.Hour
)

// Config tunes freshness, listing and background loading.
type Config struct {
	PriceMaxAge  time.Duration
	RecipeMaxAge time.Duration
	ItemMaxAge   time.Duration // 0 = items never go stale

	ListBatchSize   int // ids per listing batch
	ListMaxBatches  int // batches a listing loads before handing off to the preloader
	LoadedThreshold int // loaded items above which listings filter memory only

	ItemPreload   preload.Config
	RecipePreload preload.Config
	Trim          preload.TrimConfig
}

// DefaultConfig returns the tuning used when nothing is configured
func DefaultConfig() Config {
	return Config{
		PriceMaxAge:     DefaultPriceMaxAge,
		RecipeMaxAge:    DefaultRecipeMaxAge,
		ListBatchSize:   200,
		ListMaxBatches:  10,
		LoadedThreshold: 1000,
		ItemPreload: preload.Config{
			Name:         "items",
			BatchSize:    200,
			PrimeBatches: 5,
			SuccessDelay: 300 * time.Millisecond,
		},
		RecipePreload: preload.Config{
			Name:         "recipes",
			BatchSize:    50,
			PrimeBatches: 1,
			SuccessDelay: 100 * time.Millisecond,
			FailureDelay: 500 * time.Millisecond,
		},
		Trim: preload.TrimConfig{
			MaxEntries: 500,
			Interval:   time.Minute,
		},
	}
}

// Catalog serves items, recipes and prices through the persistent cache.
type Catalog struct {
	remote    domain.RemoteSource
	store     domain.Store
	state     *State
	staleness *Staleness
	logger    *slog.Logger
	now       func() time.Time
	cfg       Config

	items   *entityCache[domain.Item]
	recipes *entityCache[domain.Recipe]
	prices  *entityCache[domain.ItemPrice]

	itemLoader   *preload.Loader
	recipeLoader *preload.Loader
	trimmer      *preload.Trimmer

	bgCtx    context.Context // ends on Close
	bgCancel context.CancelFunc
	bg       sync.WaitGroup
}

type Option func(*Catalog)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		c.logger = logger
	}
}

// WithClock replaces time.Now for staleness decisions
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) {
		c.now = now
	}
}

// WithState shares in-memory state, e.g. one that resets the request memo.
func WithState(state *State) Option {
	return func(c *Catalog) {
		c.state = state
	}
}

func WithConfig(cfg Config) Option {
	return func(c *Catalog) {
		c.cfg = cfg
	}
}

// New wires a catalog. Background work starts only through the Preload
// functions, StartTrimming or a listing that finds nothing loaded.
func New(remote domain.RemoteSource, store domain.Store, opts ...Option) *Catalog {
	c := &Catalog{
		remote: remote,
		store:  store,
		now:    time.Now,
		cfg:    DefaultConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.state == nil {
		c.state = NewState(nil)
	}
	c.staleness = NewStaleness(store, c.now, c.logger)
	c.bgCtx, c.bgCancel = context.WithCancel(context.Background())

	c.items = &entityCache[domain.Item]{
		collection: domain.CollectionItems,
		store:      store,
		staleness:  c.staleness,
		maxAge:     c.cfg.ItemMaxAge,
		logger:     c.logger,
		fetchOne: func(ctx context.Context, id int) (domain.Item, bool, error) {
			item, err := remote.Item(ctx, id)
			return item, err == nil, err
		},
		fetchMany: remote.Items,
	}
	c.recipes = &entityCache[domain.Recipe]{
		collection: domain.CollectionRecipes,
		store:      store,
		staleness:  c.staleness,
		maxAge:     c.cfg.RecipeMaxAge,
		logger:     c.logger,
		fetchOne:   remote.Recipe,
		fetchMany:  remote.Recipes,
	}
	c.prices = &entityCache[domain.ItemPrice]{
		collection: domain.CollectionPrices,
		store:      store,
		staleness:  c.staleness,
		maxAge:     c.cfg.PriceMaxAge,
		logger:     c.logger,
		fetchOne: func(ctx context.Context, id int) (domain.ItemPrice, bool, error) {
			// placeholders are never stored and never shadow a cached quote
			p, err := remote.Price(ctx, id)
			return p, err == nil && p.HasTradingData(), err
		},
		fetchMany: remote.Prices,
	}

	c.itemLoader = preload.NewLoader(c.cfg.ItemPreload, c.ItemIDs, c.loadItemBatch, c.logger)
	c.recipeLoader = preload.NewLoader(c.cfg.RecipePreload, c.recipeIDsForPreload, c.loadRecipeBatch, c.logger)
	c.trimmer = preload.NewTrimmer(store, c.cfg.Trim, c.logger)

	return c
}

// State exposes the in-memory state
func (c *Catalog) State() *State {
	return c.state
}

// Staleness exposes the freshness policy
func (c *Catalog) Staleness() *Staleness {
	return c.staleness
}

// Close stops background work and runs a final trim. The store stays open.
func (c *Catalog) Close() {
	c.bgCancel()
	c.bg.Wait()
	c.StopPreload()
	c.trimmer.Stop()
}
