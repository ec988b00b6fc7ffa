package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/beavr/pkg/buildinfo"
	"github.com/matzehuels/beavr/pkg/cache"
	"github.com/matzehuels/beavr/pkg/color"
	"github.com/matzehuels/beavr/pkg/config"
	"github.com/matzehuels/beavr/pkg/errors"
	"github.com/matzehuels/beavr/pkg/observability"
	"github.com/matzehuels/beavr/pkg/pipeline"
	"github.com/matzehuels/beavr/pkg/source"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "beavr"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger     *log.Logger
	ConfigPath string
	Config     config.Config
}

// New creates a new CLI instance with a default logger and the default
// configuration. The configuration file is read by the root command before
// any subcommand runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "beavr decomposes colored graphs and expands pattern counts",
		Long: `beavr is the backend of the BEAVr visualizer. It splits a colored graph into
the components induced by a color set, rebuilds their treedepth trees, lays
them out, and expands the inclusion-exclusion terms used to combine pattern
counts.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/beavr/config.toml)")

	root.AddCommand(c.decomposeCommand())
	root.AddCommand(c.combineCommand())
	root.AddCommand(c.sampleCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}
	hooks := observability.NewLogHooks(c.Logger)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cch, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if prefix := c.Config.Cache.Prefix; prefix != "" {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), prefix)
	}
	r := pipeline.NewRunner(cch, keyer, c.Logger)
	r.TTL = c.Config.Cache.TTL.Duration
	return r, nil
}

func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cch, err := cache.Open(c.Config.CacheOptions())
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cch, nil
}

// loadDataset reads a dataset file.
func loadDataset(ctx context.Context, path string) (*source.Dataset, error) {
	var src source.DataSource = source.JSONFile{Path: path}
	return src.Load(ctx)
}

// parseColors parses "0,1,2" (braces and spaces allowed) into a set.
func parseColors(s string) (color.Set, error) {
	s = strings.Trim(strings.TrimSpace(s), "{}")
	if strings.TrimSpace(s) == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no colors given")
	}
	return color.Parse(s)
}
