package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mmcdole/gw2catalog/internal/config"
	"github.com/mmcdole/gw2catalog/internal/gw2"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "config.yaml", "logging:\n  level: DEBUG\n")

	cfg, err := config.LoadConfig(path)

	require.NoError(t, err)
	require.Equal(t, gw2.DefaultBaseURL, cfg.API.BaseURL)
	require.Equal(t, 200, cfg.API.MaxIDsPerRequest)
	require.Equal(t, time.Hour, cfg.Cache.PriceMaxAge)
	require.Equal(t, 24*time.Hour, cfg.Cache.RecipeMaxAge)
	require.Equal(t, 500, cfg.Cache.MaxEntries)
	require.Equal(t, "DEBUG", cfg.Logging.Level)
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "config.yaml", `
api:
  base_url: http://localhost:8080/v2
  max_ids_per_request: 50
  memo_ttl: 30s
cache:
  dir: /tmp/gw2
  max_entries: 1000
  price_max_age: 15m
preload:
  item_batch_size: 100
  recipe_delay: 250ms
`)

	cfg, err := config.LoadConfig(path)

	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080/v2", cfg.API.BaseURL)
	require.Equal(t, 50, cfg.API.MaxIDsPerRequest)
	require.Equal(t, 30*time.Second, cfg.API.MemoTTL)
	require.Equal(t, "/tmp/gw2", cfg.Cache.Dir)
	require.Equal(t, 15*time.Minute, cfg.Cache.PriceMaxAge)

	cat := cfg.Catalog()
	require.Equal(t, 15*time.Minute, cat.PriceMaxAge)
	require.Equal(t, 100, cat.ItemPreload.BatchSize)
	require.Equal(t, 250*time.Millisecond, cat.RecipePreload.SuccessDelay)
	require.Equal(t, 1000, cat.Trim.MaxEntries)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := writeFile(t, "config.yaml", "cache:\n  max_entries: 700\n")
	t.Setenv("GW2CATALOG_CACHE_MAX_ENTRIES", "900")
	t.Setenv("GW2CATALOG_API_BASE_URL", "http://mirror.example/v2")

	cfg, err := config.LoadConfig(path)

	require.NoError(t, err)
	require.Equal(t, 900, cfg.Cache.MaxEntries)
	require.Equal(t, "http://mirror.example/v2", cfg.API.BaseURL)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "config.yaml", "api:\n  max_ids_per_request: 500\n")

	_, err := config.LoadConfig(path)

	require.ErrorContains(t, err, "max_ids_per_request")
}

func TestSaveConfigRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Cache.Dir = "/var/cache/gw2catalog"
	cfg.Cache.PriceMaxAge = 10 * time.Minute
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, config.SaveConfig(cfg, path))
	loaded, err := config.LoadConfig(path)

	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	require.Equal(t, slog.LevelDebug, config.ParseLogLevel("debug"))
	require.Equal(t, slog.LevelWarn, config.ParseLogLevel("WARNING"))
	require.Equal(t, slog.LevelError, config.ParseLogLevel("Error"))
	require.Equal(t, slog.LevelInfo, config.ParseLogLevel("verbose"))
}

func TestSetupLoggerCreatesFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "gw2catalog.log")
	logger, err := config.SetupLogger(&config.LoggingConfig{File: path, Level: "INFO"}, "https://api.guildwars2.com/v2")
	require.NoError(t, err)

	config.Component(logger, "catalog").Info("cache opened", "path", "x", "max_age", time.Hour)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"cache opened"`)
	require.Contains(t, string(data), `"api":"https://api.guildwars2.com/v2"`)
	require.Contains(t, string(data), `"component":"catalog"`)
	require.Contains(t, string(data), `"max_age":"1h0m0s"`)
}

func TestSetupLoggerTextFormat(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "gw2catalog.log")
	logger, err := config.SetupLogger(&config.LoggingConfig{File: path, Level: "WARN", Format: "text"}, "")
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("softened failure", "delay", 1500*time.Millisecond)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), "dropped")
	require.Contains(t, string(data), "msg=\"softened failure\" delay=1.5s")
	require.NotContains(t, string(data), "api=")
}

func TestExpandHome(t *testing.T) {
	t.Parallel()

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := config.ExpandHome("~/.cache/gw2catalog")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".cache/gw2catalog"), got)

	got, err = config.ExpandHome("/var/cache/gw2catalog")
	require.NoError(t, err)
	require.Equal(t, "/var/cache/gw2catalog", got)
}
