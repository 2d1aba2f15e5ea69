package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jsb/pkg/cache"
	"github.com/matzehuels/jsb/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the repository probe cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget every cached probe result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := probeDir()
			if err != nil {
				return err
			}
			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return errors.Wrap(errors.ErrCodeFilesystem, err, "open cache %s", dir)
			}
			n, err := fc.Clear()
			if err != nil {
				return errors.Wrap(errors.ErrCodeFilesystem, err, "clear cache %s", dir)
			}

			if n == 0 {
				c.out.info("Cache is empty")
				return nil
			}
			c.out.success("Cleared %d cached entries", n)
			c.out.detail("Directory: %s", dir)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := probeDir()
			if err != nil {
				return err
			}
			c.out.plain(dir)
			return nil
		},
	}
}

func probeDir() (string, error) {
	dir, err := cacheDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFilesystem, err, "locate cache directory")
	}
	return filepath.Join(dir, probeCacheDir), nil
}
