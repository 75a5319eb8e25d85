// Package cli implements the freecell command-line interface.
//
// This package provides commands for computing card stack layouts, previewing
// them interactively in the terminal, serving them over HTTP, and managing the
// layout cache. The CLI is built using cobra and supports verbose logging via
// the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - layout: Compute offset sequences for a card stack
//   - preview: Interactive terminal preview of a stack layout
//   - serve: Expose layout computation over HTTP
//   - cache: Manage the layout cache
//
// # Configuration
//
// Defaults for geometry and visibility can be set in
// ~/.config/freecell/layout.toml; flags override the file.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/GalacticGlum/FreeCell/pkg/buildinfo"
	"github.com/GalacticGlum/FreeCell/pkg/cache"
	"github.com/GalacticGlum/FreeCell/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "freecell"

	// configFileName is the configuration file looked up under the config dir.
	configFileName = "layout.toml"
)

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
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "freecell",
		Short:        "Freecell computes vertical card stack layouts",
		Long:         `Freecell computes the vertical spacing of overlapping card stacks: how much of each card stays visible so that any number of cards fits the viewport, compressing the cards just above the bottom of the stack when space runs out.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. The cache backend is
// chosen from the configuration: redis when an address is configured, the
// local file cache otherwise, and the null cache when caching is disabled.
func (c *CLI) newRunner(ctx context.Context, noCache bool, cfg Config) (*pipeline.Runner, error) {
	backend, err := newCache(ctx, noCache, cfg)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(backend, nil, c.Logger), nil
}

func newCache(ctx context.Context, noCache bool, cfg Config) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if cfg.Cache.RedisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err == nil {
			return rc, nil
		}
		printWarning("Redis cache unavailable, using local cache: %v", err)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/freecell/).
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

// configPath returns the configuration file path using XDG standard
// (~/.config/freecell/layout.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, configFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, configFileName), nil
}
