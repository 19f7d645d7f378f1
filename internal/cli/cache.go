package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/colortrade/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the result cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached solutions and trade graphs",
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := c.openCache(cmd.Context(), false)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer ch.Close()

			clearer, ok := ch.(cache.Clearer)
			if !ok {
				printInfo("The %s backend cannot be cleared from here", c.Config.Cache.Backend)
				return nil
			}
			count, err := clearer.Clear(cmd.Context())
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess("Cleared %d cached entries", count)
			printDetail("Location: %s", c.cacheLocation())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), c.cacheLocation())
			return nil
		},
	}
}

// cacheLocation describes the configured cache: a directory for the local
// backends, an address for the remote ones.
func (c *CLI) cacheLocation() string {
	cfg, err := c.cacheConfig()
	if err != nil {
		return "unavailable: " + err.Error()
	}
	switch cfg.Backend {
	case cache.BackendRedis:
		return "redis://" + cfg.RedisAddr
	case cache.BackendMongo:
		return cfg.MongoURI
	case cache.BackendNone:
		return "disabled"
	default:
		return cfg.Dir
	}
}
