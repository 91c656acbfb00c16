package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/statsmith/statsmith/pkg/cache"
	"github.com/statsmith/statsmith/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the HTTP response cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand. It clears
// whichever backend the configuration selects: the Redis instance when
// CACHE_REDIS_ADDR is set, the local file cache otherwise.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached API responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if cfg.CacheRedisAddr != "" {
				store, err := cache.NewRedisCache(cfg.CacheRedisAddr)
				if err != nil {
					return fmt.Errorf("connect redis: %w", err)
				}
				defer store.Close()

				if err := store.Clear(cmd.Context()); err != nil {
					return fmt.Errorf("clear redis cache: %w", err)
				}
				printSuccess("Cleared Redis cache")
				printDetail("Instance: %s", cfg.CacheRedisAddr)
				return nil
			}

			return clearFileCache()
		},
	}
}

// clearFileCache removes every cached entry under the cache directory,
// counting files as it goes so the summary reflects what was deleted.
func clearFileCache() error {
	dir, err := cacheDir()
	if err != nil {
		return fmt.Errorf("get cache dir: %w", err)
	}

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		printInfo("Cache is empty")
		return nil
	}

	count := 0
	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors, continue walking
		}
		if path == dir {
			return nil
		}
		if !info.IsDir() {
			if err := os.Remove(path); err == nil {
				count++
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Clean up empty subdirectories
	_ = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || path == dir {
			return nil
		}
		if info.IsDir() {
			os.Remove(path)
		}
		return nil
	})

	printSuccess("Cleared %d cached entries", count)
	printDetail("Directory: %s", dir)
	return nil
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}
