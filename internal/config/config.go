package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mmcdole/gw2catalog/internal/catalog"
	"github.com/mmcdole/gw2catalog/internal/gw2"
	"github.com/mmcdole/gw2catalog/internal/preload"
)

const (
	appName   = "gw2catalog"
	envPrefix = "GW2CATALOG"
)

// Config holds all application configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Preload PreloadConfig `mapstructure:"preload"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig holds remote API configuration
type APIConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	MaxIDsPerRequest  int           `mapstructure:"max_ids_per_request"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"` // 0 disables rate limiting
	Burst             int           `mapstructure:"burst"`
	MemoSize          int           `mapstructure:"memo_size"`
	MemoTTL           time.Duration `mapstructure:"memo_ttl"`
}

// CacheConfig holds persistent cache configuration
type CacheConfig struct {
	Dir          string        `mapstructure:"dir"`
	MaxEntries   int           `mapstructure:"max_entries"`
	Ceiling      int           `mapstructure:"ceiling"` // 0 = 2 × max_entries
	TrimInterval time.Duration `mapstructure:"trim_interval"`
	PriceMaxAge  time.Duration `mapstructure:"price_max_age"`
	RecipeMaxAge time.Duration `mapstructure:"recipe_max_age"`
}

// PreloadConfig holds background loader tuning
type PreloadConfig struct {
	ItemBatchSize      int           `mapstructure:"item_batch_size"`
	ItemPrimeBatches   int           `mapstructure:"item_prime_batches"`
	ItemDelay          time.Duration `mapstructure:"item_delay"`
	ItemFailureDelay   time.Duration `mapstructure:"item_failure_delay"`
	RecipeBatchSize    int           `mapstructure:"recipe_batch_size"`
	RecipeDelay        time.Duration `mapstructure:"recipe_delay"`
	RecipeFailureDelay time.Duration `mapstructure:"recipe_failure_delay"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File   string `mapstructure:"file"`
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or text
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	defaults := catalog.DefaultConfig()
	return &Config{
		API: APIConfig{
			BaseURL:           gw2.DefaultBaseURL,
			Timeout:           30 * time.Second,
			MaxIDsPerRequest:  gw2.MaxIDsPerRequest,
			RequestsPerSecond: 10,
			Burst:             5,
			MemoSize:          2048,
			MemoTTL:           5 * time.Minute,
		},
		Cache: CacheConfig{
			Dir:          defaultCachePath(),
			MaxEntries:   defaults.Trim.MaxEntries,
			TrimInterval: defaults.Trim.Interval,
			PriceMaxAge:  defaults.PriceMaxAge,
			RecipeMaxAge: defaults.RecipeMaxAge,
		},
		Preload: PreloadConfig{
			ItemBatchSize:      defaults.ItemPreload.BatchSize,
			ItemPrimeBatches:   defaults.ItemPreload.PrimeBatches,
			ItemDelay:          defaults.ItemPreload.SuccessDelay,
			ItemFailureDelay:   time.Second,
			RecipeBatchSize:    defaults.RecipePreload.BatchSize,
			RecipeDelay:        defaults.RecipePreload.SuccessDelay,
			RecipeFailureDelay: defaults.RecipePreload.FailureDelay,
		},
		Logging: LoggingConfig{
			File:   defaultLogPath(),
			Level:  "INFO",
			Format: "json",
		},
	}
}

// Catalog converts the settings into orchestrator tuning
func (c *Config) Catalog() catalog.Config {
	cfg := catalog.DefaultConfig()
	cfg.PriceMaxAge = c.Cache.PriceMaxAge
	cfg.RecipeMaxAge = c.Cache.RecipeMaxAge
	cfg.ItemPreload = preload.Config{
		Name:         "items",
		BatchSize:    c.Preload.ItemBatchSize,
		PrimeBatches: c.Preload.ItemPrimeBatches,
		SuccessDelay: c.Preload.ItemDelay,
		FailureDelay: c.Preload.ItemFailureDelay,
	}
	cfg.RecipePreload = preload.Config{
		Name:         "recipes",
		BatchSize:    c.Preload.RecipeBatchSize,
		PrimeBatches: 1,
		SuccessDelay: c.Preload.RecipeDelay,
		FailureDelay: c.Preload.RecipeFailureDelay,
	}
	cfg.Trim = preload.TrimConfig{
		MaxEntries: c.Cache.MaxEntries,
		Ceiling:    c.Cache.Ceiling,
		Interval:   c.Cache.TrimInterval,
	}
	return cfg
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName, appName+".log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", appName, appName+".log")
	}
}

// DefaultConfigPath returns the default config directory for the current OS
func DefaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", appName)
	}
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), appName, "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", appName, "cache")
	}
}

// newViper registers every key with its default so that environment
// overrides such as GW2CATALOG_API_BASE_URL are seen by Unmarshal.
func newViper() *viper.Viper {
	v := viper.New()
	d := DefaultConfig()

	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("api.max_ids_per_request", d.API.MaxIDsPerRequest)
	v.SetDefault("api.requests_per_second", d.API.RequestsPerSecond)
	v.SetDefault("api.burst", d.API.Burst)
	v.SetDefault("api.memo_size", d.API.MemoSize)
	v.SetDefault("api.memo_ttl", d.API.MemoTTL)

	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.max_entries", d.Cache.MaxEntries)
	v.SetDefault("cache.ceiling", d.Cache.Ceiling)
	v.SetDefault("cache.trim_interval", d.Cache.TrimInterval)
	v.SetDefault("cache.price_max_age", d.Cache.PriceMaxAge)
	v.SetDefault("cache.recipe_max_age", d.Cache.RecipeMaxAge)

	v.SetDefault("preload.item_batch_size", d.Preload.ItemBatchSize)
	v.SetDefault("preload.item_prime_batches", d.Preload.ItemPrimeBatches)
	v.SetDefault("preload.item_delay", d.Preload.ItemDelay)
	v.SetDefault("preload.item_failure_delay", d.Preload.ItemFailureDelay)
	v.SetDefault("preload.recipe_batch_size", d.Preload.RecipeBatchSize)
	v.SetDefault("preload.recipe_delay", d.Preload.RecipeDelay)
	v.SetDefault("preload.recipe_failure_delay", d.Preload.RecipeFailureDelay)

	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig loads configuration from file and environment. An empty
// path searches the default config directory and the working directory.
func LoadConfig(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultConfigPath())
		v.AddConfigPath(".")
	}

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the cache cannot run with
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url must be set")
	}
	if c.API.MaxIDsPerRequest <= 0 || c.API.MaxIDsPerRequest > gw2.MaxIDsPerRequest {
		return fmt.Errorf("api.max_ids_per_request must be between 1 and %d", gw2.MaxIDsPerRequest)
	}
	if c.Cache.Dir == "" {
		return errors.New("cache.dir must be set")
	}
	if c.Cache.MaxEntries <= 0 {
		return errors.New("cache.max_entries must be positive")
	}
	return nil
}

// SaveConfig writes cfg as YAML to path, creating its directory.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.Set("api.base_url", cfg.API.BaseURL)
	v.Set("api.timeout", cfg.API.Timeout.String())
	v.Set("api.max_ids_per_request", cfg.API.MaxIDsPerRequest)
	v.Set("api.requests_per_second", cfg.API.RequestsPerSecond)
	v.Set("api.burst", cfg.API.Burst)
	v.Set("api.memo_size", cfg.API.MemoSize)
	v.Set("api.memo_ttl", cfg.API.MemoTTL.String())

	v.Set("cache.dir", cfg.Cache.Dir)
	v.Set("cache.max_entries", cfg.Cache.MaxEntries)
	v.Set("cache.ceiling", cfg.Cache.Ceiling)
	v.Set("cache.trim_interval", cfg.Cache.TrimInterval.String())
	v.Set("cache.price_max_age", cfg.Cache.PriceMaxAge.String())
	v.Set("cache.recipe_max_age", cfg.Cache.RecipeMaxAge.String())

	v.Set("preload.item_batch_size", cfg.Preload.ItemBatchSize)
	v.Set("preload.item_prime_batches", cfg.Preload.ItemPrimeBatches)
	v.Set("preload.item_delay", cfg.Preload.ItemDelay.String())
	v.Set("preload.item_failure_delay", cfg.Preload.ItemFailureDelay.String())
	v.Set("preload.recipe_batch_size", cfg.Preload.RecipeBatchSize)
	v.Set("preload.recipe_delay", cfg.Preload.RecipeDelay.String())
	v.Set("preload.recipe_failure_delay", cfg.Preload.RecipeFailureDelay.String())

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)
	v.Set("logging.format", cfg.Logging.Format)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
