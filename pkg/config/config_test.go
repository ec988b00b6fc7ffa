package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/beavr/pkg/errors"
	"github.com/matzehuels/beavr/pkg/layout"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[layout]
engine = "spring"
iterations = 50

[combine]
pattern_size = 4

[cache]
backend = "redis"
redis_addr = "localhost:6379"
ttl = "2h"
prefix = "team-a:"

[server]
addr = ":9000"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Path != path {
		t.Errorf("Path = %q", cfg.Path)
	}
	if cfg.Layout.Engine != "spring" || cfg.Layout.Iterations != 50 {
		t.Errorf("layout = %+v", cfg.Layout)
	}
	if cfg.Layout.Margin != layout.DefaultMargin {
		t.Errorf("unset margin = %v, want default", cfg.Layout.Margin)
	}
	if cfg.Combine.PatternSize != 4 || cfg.Combine.MinSize != -1 {
		t.Errorf("combine = %+v", cfg.Combine)
	}
	if cfg.Cache.Prefix != "team-a:" {
		t.Errorf("prefix = %q", cfg.Cache.Prefix)
	}
	if cfg.Cache.TTL.Duration != 2*time.Hour {
		t.Errorf("ttl = %v", cfg.Cache.TTL)
	}
	if opts := cfg.CacheOptions(); opts.Backend != "redis" || opts.Redis.Addr != "localhost:6379" {
		t.Errorf("cache options = %+v", opts)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Path != "" {
		t.Errorf("Path = %q, want empty", cfg.Path)
	}
	if cfg.Layout.Engine != string(layout.EngineRadial) || cfg.Cache.Backend != "file" {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestLoadXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, "beavr"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "beavr", "config.toml"), []byte("[layout]\nengine = \"twopi\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Layout.Engine != "twopi" {
		t.Errorf("engine = %q", cfg.Layout.Engine)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"syntax", "[layout\n", errors.ErrCodeInvalidConfig},
		{"unknown key", "[layout]\ncolor = 1\n", errors.ErrCodeInvalidConfig},
		{"bad engine", "[layout]\nengine = \"circo\"\n", errors.ErrCodeInvalidConfig},
		{"bad margin", "[layout]\nmargin = 0.7\n", errors.ErrCodeInvalidConfig},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n", errors.ErrCodeInvalidConfig},
		{"bad ttl", "[cache]\nttl = \"soon\"\n", errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing explicit file: error = %v", err)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandHome("~/cache"); got != filepath.Join(home, "cache") {
		t.Errorf("expandHome = %q", got)
	}
	if got := expandHome("/tmp/x"); got != "/tmp/x" {
		t.Errorf("absolute path changed: %q", got)
	}
}

func TestDefaultCacheDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)
	if got := DefaultCacheDir(); got != filepath.Join(dir, "beavr") {
		t.Errorf("DefaultCacheDir() = %q", got)
	}
}
