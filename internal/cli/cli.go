// Package cli implements the nodeglow command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nodeglow/nodeglow/pkg/buildinfo"
	"github.com/nodeglow/nodeglow/pkg/cache"
	"github.com/nodeglow/nodeglow/pkg/graph"
	"github.com/nodeglow/nodeglow/pkg/widget"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "nodeglow"
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
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "nodeglow",
		Short: "Nodeglow serves interactive knowledge graph widgets",
		Long: `Nodeglow computes the interaction states behind knowledge graph
visualizations: hop-distance hover effects, selection and filter modes,
and collision-free label layouts. The serve command hosts graphs over
HTTP and streams state changes to connected viewers.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.demoCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Widget Factory
// =============================================================================

// loadWidget reads a graph JSON file and binds a widget to it. When
// configPath is set, widget options come from that TOML file.
func (c *CLI) loadWidget(input, configPath string, noCache bool) (*widget.Widget, error) {
	data, err := os.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("read graph %s: %w", input, err)
	}
	g, err := graph.FromJSON(data)
	if err != nil {
		return nil, err
	}

	opts := widget.Options{}
	if configPath != "" {
		loaded, err := widget.LoadOptions(configPath)
		if err != nil {
			return nil, err
		}
		opts = *loaded
	}
	opts.Logger = c.Logger

	artifacts, err := newLocalCache(noCache)
	if err != nil {
		return nil, err
	}
	opts.Cache = artifacts

	return widget.New(g, opts)
}

// newLocalCache builds the artifact cache used by local commands, a file
// cache under the XDG cache directory. Pass noCache to disable caching.
func newLocalCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
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

// cacheDir returns the cache directory using XDG standard (~/.cache/nodeglow/).
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
