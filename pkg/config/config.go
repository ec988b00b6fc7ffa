// Package config loads the beavr TOML configuration file.
//
// The file is optional. [Load] looks for it at an explicit path first, then
// at $XDG_CONFIG_HOME/beavr/config.toml (~/.config/beavr/config.toml when
// XDG_CONFIG_HOME is unset). Missing files yield [Default]. The redis
// password is read from BEAVR_REDIS_PASSWORD, never from the file.
//
//	[layout]
//	engine = "twopi"
//	margin = 0.05
//	seed = 1
//	iterations = 200
//
//	[combine]
//	pattern_size = 4
//	min_size = 2
//
//	[cache]
//	backend = "file"     # none, file or redis
//	dir = "~/.cache/beavr"
//	ttl = "168h"
//	redis_addr = "localhost:6379"
//	redis_db = 0
//	prefix = "beavr:"
//
//	[server]
//	addr = ":8080"
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/beavr/pkg/cache"
	"github.com/matzehuels/beavr/pkg/errors"
	"github.com/matzehuels/beavr/pkg/layout"
)

// Config is the parsed configuration file.
type Config struct {
	Layout  Layout  `toml:"layout"`
	Combine Combine `toml:"combine"`
	Cache   Cache   `toml:"cache"`
	Server  Server  `toml:"server"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-"`
}

// Layout configures the layout engine.
type Layout struct {
	Engine     string  `toml:"engine"`
	Margin     float64 `toml:"margin"`
	Seed       uint64  `toml:"seed"`
	Iterations int     `toml:"iterations"`
}

// Combine overrides the dataset's pattern bounds. Negative values keep the
// dataset's own.
type Combine struct {
	PatternSize int `toml:"pattern_size"`
	MinSize     int `toml:"min_size"`
}

// Cache selects the cache backend.
type Cache struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	TTL       Duration `toml:"ttl"`
	RedisAddr string   `toml:"redis_addr"`
	RedisDB   int      `toml:"redis_db"`
	Prefix    string   `toml:"prefix"` // Prepended to every key, for shared redis instances
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a Go duration string.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Layout: Layout{
			Engine:     string(layout.EngineRadial),
			Margin:     layout.DefaultMargin,
			Seed:       layout.DefaultSeed,
			Iterations: layout.DefaultIterations,
		},
		Combine: Combine{PatternSize: -1, MinSize: -1},
		Cache: Cache{
			Backend: cache.BackendFile,
			Dir:     DefaultCacheDir(),
		},
		Server: Server{Addr: ":8080"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/beavr/config.toml.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "beavr", "config.toml")
}

// DefaultCacheDir returns $XDG_CACHE_HOME/beavr, or ~/.cache/beavr.
func DefaultCacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "beavr")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "beavr")
	}
	return filepath.Join(home, ".cache", "beavr")
}

// Load reads path, or the default path when path is empty. An explicit path
// must exist; a missing default file yields [Default].
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %s", path, undecoded[0])
	}
	cfg.Path = path
	cfg.Cache.Dir = expandHome(cfg.Cache.Dir)
	return cfg, cfg.Validate()
}

// Validate checks enumerated values and ranges.
func (c Config) Validate() error {
	opts := c.LayoutOptions()
	if err := opts.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[layout]")
	}
	switch c.Cache.Backend {
	case cache.BackendNone, cache.BackendFile, cache.BackendRedis:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "[cache] unknown backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "[cache] negative ttl %s", c.Cache.TTL)
	}
	return nil
}

// LayoutOptions converts the [layout] section.
func (c Config) LayoutOptions() layout.Options {
	return layout.Options{
		Engine:     layout.Engine(c.Layout.Engine),
		Margin:     c.Layout.Margin,
		Seed:       c.Layout.Seed,
		Iterations: c.Layout.Iterations,
		KeepMargin: true,
	}
}

// CacheOptions converts the [cache] section.
func (c Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend: c.Cache.Backend,
		Dir:     c.Cache.Dir,
		Redis: cache.RedisOptions{
			Addr:     c.Cache.RedisAddr,
			Password: os.Getenv("BEAVR_REDIS_PASSWORD"),
			DB:       c.Cache.RedisDB,
		},
	}
}

func expandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
