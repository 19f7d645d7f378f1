package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/colortrade/pkg/buildinfo"
	"github.com/matzehuels/colortrade/pkg/cache"
	"github.com/matzehuels/colortrade/pkg/pipeline"
)

const (
	// appName is the application name used for directories and display.
	appName = "colortrade"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config

	configFile string
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
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
		Short: "Enumerate exact edge colorings and the trades between them",
		Long: `colortrade finds every edge coloring of a graph in which each vertex uses
exactly a prescribed set of colors, then links colorings that differ on every
edge ("trades") and reports how the resulting trade graph is structured.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(c.configFile)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default $XDG_CONFIG_HOME/colortrade/config.toml)")

	root.AddCommand(c.solveCommand())
	root.AddCommand(c.tradesCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.builtinsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if ns := c.Config.Cache.Namespace; ns != "" {
		keyer = cache.NewScopedKeyer(nil, ns+":")
	}
	r := pipeline.NewRunner(ch, keyer, loggerFromContext(ctx))
	r.TTL = c.Config.Cache.TTL
	return r, nil
}

func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cfg, err := c.cacheConfig()
	if err != nil {
		loggerFromContext(ctx).Warn("caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.Open(ctx, cfg)
}

// cacheConfig resolves the cache section of the config, filling in the
// default directory for the local backends.
func (c *CLI) cacheConfig() (cache.Config, error) {
	cc := c.Config.Cache
	cfg := cache.Config{
		Backend:   cc.Backend,
		Dir:       cc.Dir,
		RedisAddr: cc.RedisAddr,
		MongoURI:  cc.MongoURI,
		Logger:    c.Logger,
	}
	if cfg.Dir != "" {
		return cfg, nil
	}
	switch cfg.Backend {
	case cache.BackendFile, "", cache.BackendBadger:
		dir, err := cacheDir()
		if err != nil {
			return cfg, err
		}
		if cfg.Backend == cache.BackendBadger {
			dir = filepath.Join(dir, "badger")
		}
		cfg.Dir = dir
	}
	return cfg, nil
}

// cacheDir returns the cache directory using XDG standard (~/.cache/colortrade/).
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

// configDir returns the config directory using XDG standard (~/.config/colortrade/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
