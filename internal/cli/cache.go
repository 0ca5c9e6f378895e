package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/meshview/pkg/cache"
	"github.com/matzehuels/meshview/pkg/settings"
)

// newCacheCmd manages the render cache.
func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the render cache",
	}
	cmd.AddCommand(newCacheClearCmd())
	cmd.AddCommand(newCachePathCmd())
	return cmd
}

// cacheDir returns the file cache directory: the settings value, or the
// per-user default (e.g. ~/.cache/meshview).
func cacheDir(s settings.CacheSettings) (string, error) {
	if s.Dir != "" {
		return s.Dir, nil
	}
	return cache.DefaultDir()
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached renders",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheClear(cmd.Context())
		},
	}
}

func runCacheClear(ctx context.Context) error {
	s := settingsFromContext(ctx).Cache
	switch s.Backend {
	case settings.CacheFile:
	case settings.CacheNone:
		printInfo("Caching is disabled")
		return nil
	default:
		printWarning("The %s backend expires entries on its own; nothing cleared", s.Backend)
		return nil
	}

	dir, err := cacheDir(s)
	if err != nil {
		return fmt.Errorf("get cache dir: %w", err)
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		printInfo("Cache is empty")
		return nil
	}

	c, err := cache.NewFileCache(dir)
	if err != nil {
		return err
	}
	if err := c.Clear(); err != nil {
		return err
	}
	printSuccess("Cleared render cache")
	printDetail("Directory: %s", dir)
	return nil
}

func newCachePathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir(settingsFromContext(cmd.Context()).Cache)
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}
