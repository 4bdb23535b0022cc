// Package cli implements the timelane command-line interface.
//
// Commands load items from a file or MongoDB collection, pack them into a
// time lane and write SVG, JSON or text charts. The view command opens an
// interactive terminal viewer and serve runs an HTTP preview server.
//
// Chart settings come from a timelane.toml file when present; flags that
// are set explicitly override it.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/timelane/pkg/buildinfo"
	"github.com/matzehuels/timelane/pkg/cache"
	"github.com/matzehuels/timelane/pkg/pipeline"
	"github.com/matzehuels/timelane/pkg/source"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "timelane"

	// redisPrefix namespaces timelane keys in a shared redis.
	redisPrefix = appName + ":"
)

// Log levels accepted by New and SetLogLevel.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level the engine and
// pipeline hook events are logged too.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	installDebugHooks(c.Logger)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           appName,
		Short:         "Timelane packs time-ranged items into compact lanes",
		Long:          `Timelane lays out time-ranged items as horizontal bars on a shared time axis, packing them into as few rows as possible, and renders the result as SVG, JSON or terminal text.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output, engine and cache events included")

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the cache opts select.
// A nil keyer uses the default key layout.
func (c *CLI) newRunner(ctx context.Context, opts pipeline.CacheOptions, keyer cache.Keyer) (*pipeline.Runner, error) {
	ch, err := newCache(ctx, opts)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, keyer, c.Logger), nil
}

// newCache returns a redis cache for a redis URL, the file cache otherwise.
// A file cache that cannot find a home directory degrades to no caching.
func newCache(ctx context.Context, opts pipeline.CacheOptions) (cache.Cache, error) {
	if opts.Disabled {
		return cache.NewNullCache(), nil
	}
	if opts.URL != "" {
		ch, err := cache.NewRedisCache(ctx, opts.URL, redisPrefix)
		if err != nil {
			return nil, fmt.Errorf("connect cache: %w", err)
		}
		return ch, nil
	}
	dir := opts.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return fc, nil
}

// newSource picks the item source: a Mongo collection when one is
// configured, the file argument otherwise.
func newSource(ctx context.Context, args []string, opts pipeline.Options) (source.Source, error) {
	if opts.Mongo != nil && opts.Mongo.URI != "" {
		return source.NewMongo(ctx, *opts.Mongo)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("no item file given and no mongo source configured")
	}
	return source.NewFile(args[0]), nil
}

// closeSource releases sources that hold connections.
func closeSource(ctx context.Context, src source.Source) {
	if m, ok := src.(*source.Mongo); ok {
		_ = m.Close(ctx)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/timelane/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
