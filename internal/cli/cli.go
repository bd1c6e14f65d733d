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

	"github.com/matzehuels/mindmap/pkg/buildinfo"
	"github.com/matzehuels/mindmap/pkg/cache"
	"github.com/matzehuels/mindmap/pkg/config"
	"github.com/matzehuels/mindmap/pkg/graph"
	"github.com/matzehuels/mindmap/pkg/llm"
	"github.com/matzehuels/mindmap/pkg/observability"
	"github.com/matzehuels/mindmap/pkg/pipeline"
	"github.com/matzehuels/mindmap/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "mindmap"

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
	Config config.Config

	configPath string
	envFile    string
	verbose    bool
}

// New creates a new CLI instance with a default logger and the built-in
// configuration. The configuration file is read before each command runs.
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
		Short: "Mindmap turns a word into a radial mind map",
		Long: `Mindmap asks a language model for the categories and terms related to a
central word, then lays them out as a radial mind map: the word in the middle,
categories on a ring around it and related terms fanned out behind each
category.

Maps can also be loaded from JSON files of the form {"Category": ["term", ...]}.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.loadConfig,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: "+config.DefaultPath()+")")
	root.PersistentFlags().StringVar(&c.envFile, "env-file", config.DefaultEnvFile, "file with API keys")

	// Register all subcommands
	root.AddCommand(c.extractCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.modelsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the configuration and applies --verbose.
func (c *CLI) loadConfig(cmd *cobra.Command, args []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
		observability.NewLogHooks(c.Logger).Install()
	}
	cfg, err := config.Load(c.configPath, c.envFile)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("loaded config", "model", cfg.LLM.Model, "cache", cfg.Cache.Backend, "store", cfg.Store.Backend)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. The store and the model
// client are attached only when withStore is set, since most commands work
// on local files.
func (c *CLI) newRunner(ctx context.Context, noCache, withStore bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if c.Config.Cache.Prefix != "" {
		keyer = cache.NewScopedKeyer(nil, c.Config.Cache.Prefix)
	}
	runner := pipeline.NewRunner(ch, keyer, c.Logger)
	if !withStore {
		return runner, nil
	}

	st, err := c.newStore(ctx)
	if err != nil {
		runner.Close()
		return nil, err
	}
	runner.Store = st
	runner.LLM = llm.New(c.Config.LLM.Client())
	return runner, nil
}

// newCache opens the configured cache backend. A file cache that cannot be
// created degrades to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.Config.Cache
	if noCache || cfg.Backend == config.CacheNone {
		return cache.NewNullCache(), nil
	}
	if cfg.Backend == config.CacheRedis {
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("open redis cache: %w", err)
		}
		return rc, nil
	}

	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("cache disabled", "dir", dir, "err", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// newStore opens the configured generation store.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	cfg := c.Config.Store
	if cfg.Backend == config.StoreMongo {
		db := cfg.MongoDatabase
		if db == "" {
			db = store.DefaultDatabase
		}
		return store.NewMongoStore(ctx, cfg.MongoURI, db)
	}
	return store.NewFileStore(cfg.Dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, falling back to the XDG
// cache location (~/.cache/mindmap/).
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	return cache.DefaultDir()
}

// centralFromPath derives the central label from a file name: the base name
// without its extension, and without a ".layout" infix.
func centralFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimSuffix(base, ".layout")
}

// =============================================================================
// Options Helpers
// =============================================================================

// renderDefaults returns pipeline options seeded from the config file.
func (c *CLI) renderDefaults() pipeline.Options {
	lc := c.Config.Layout
	return pipeline.Options{
		CategoryRadius: lc.CategoryRadius,
		LeafRadius:     lc.LeafRadius,
		LeafSpan:       lc.LeafSpan,
		Style:          c.Config.Render.Style,
		Zoom:           c.Config.Render.Zoom,
		Logger:         c.Logger,
	}
}

// parseFormats parses a comma-separated format string into a slice.
// An empty string selects the configured formats, or SVG.
func parseFormats(s string, fallback []string) []string {
	if s != "" {
		parts := strings.Split(s, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	if len(fallback) > 0 {
		return fallback
	}
	return []string{graph.FormatSVG}
}
