// Package config loads table options from a config file and SPARSETAG_
// environment variables.
//
//	cfg, err := config.Load("sparsetag.yaml")
//	opts, err := cfg.Options()
//	tbl, err := sparsetag.FromDense(data, names, opts...)
//
// Environment variables override the file: SPARSETAG_CACHE_MAX_ENTRIES
// sets cache.max_entries, SPARSETAG_LOG_LEVEL sets log.level, and so on.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/hupe1980/sparsetag"
	"github.com/hupe1980/sparsetag/internal/cache"
)

// EnvPrefix is the prefix of recognized environment variables.
const EnvPrefix = "SPARSETAG"

// Config mirrors the table options.
type Config struct {
	Cache             CacheConfig `mapstructure:"cache"`
	SparsityThreshold float64     `mapstructure:"sparsity_threshold"`
	Log               LogConfig   `mapstructure:"log"`
}

// CacheConfig holds result-cache limits.
type CacheConfig struct {
	Enabled            bool  `mapstructure:"enabled"`
	MaxEntries         int   `mapstructure:"max_entries"`
	MaxMemoryBytes     int64 `mapstructure:"max_memory_bytes"`
	LargeResultBytes   int64 `mapstructure:"large_result_bytes"`
	EntryOverheadBytes int64 `mapstructure:"entry_overhead_bytes"`
}

// LogConfig selects the logger.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `mapstructure:"level"`
	// Format is text, json or none.
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.max_entries", cache.DefaultMaxEntries)
	v.SetDefault("cache.max_memory_bytes", cache.DefaultMaxMemoryBytes)
	v.SetDefault("cache.large_result_bytes", cache.DefaultLargeResultThreshold)
	v.SetDefault("cache.entry_overhead_bytes", cache.DefaultEntryOverheadBytes)
	v.SetDefault("sparsity_threshold", sparsetag.DefaultSparsityThreshold)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "none")
}

// Load reads path, if not empty, then applies environment overrides.
// Without a path, a sparsetag.{yaml,json,toml} in the working directory is
// used when present.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("sparsetag")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache.max_entries must not be negative, got %d", c.Cache.MaxEntries)
	}
	if c.Cache.MaxMemoryBytes < 0 {
		return fmt.Errorf("cache.max_memory_bytes must not be negative, got %d", c.Cache.MaxMemoryBytes)
	}
	if c.Cache.LargeResultBytes < 0 {
		return fmt.Errorf("cache.large_result_bytes must not be negative, got %d", c.Cache.LargeResultBytes)
	}
	if c.Cache.EntryOverheadBytes < 0 {
		return fmt.Errorf("cache.entry_overhead_bytes must not be negative, got %d", c.Cache.EntryOverheadBytes)
	}
	if _, err := c.Log.level(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "none", "text", "json":
	default:
		return fmt.Errorf("log.format must be text, json or none, got %q", c.Log.Format)
	}
	return nil
}

func (l LogConfig) level() (slog.Level, error) {
	var lvl slog.Level
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}

// Logger builds the configured logger.
func (l LogConfig) Logger() (*sparsetag.Logger, error) {
	lvl, err := l.level()
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(l.Format) {
	case "text":
		return sparsetag.NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
	case "json":
		return sparsetag.NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
	default:
		return sparsetag.NoopLogger(), nil
	}
}

// Options converts c into table options.
func (c Config) Options() ([]sparsetag.Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	logger, err := c.Log.Logger()
	if err != nil {
		return nil, err
	}
	return []sparsetag.Option{
		sparsetag.WithCache(c.Cache.Enabled),
		sparsetag.WithCacheLimits(c.Cache.MaxEntries, c.Cache.MaxMemoryBytes, c.Cache.LargeResultBytes),
		sparsetag.WithEntryOverhead(c.Cache.EntryOverheadBytes),
		sparsetag.WithSparsityThreshold(c.SparsityThreshold),
		sparsetag.WithLogger(logger),
	}, nil
}
