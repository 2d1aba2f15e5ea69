package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jsb/pkg/coord"
	"github.com/matzehuels/jsb/pkg/errors"
)

// depCommand creates the dependency management command.
func (c *CLI) depCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dep",
		Aliases: []string{"deps"},
		Short:   "Manage declared dependencies",
	}

	cmd.AddCommand(c.depAddCommand())
	cmd.AddCommand(c.depRemoveCommand())
	cmd.AddCommand(c.depListCommand())
	cmd.AddCommand(c.depFetchCommand())

	return cmd
}

// depAddCommand creates the "dep add" subcommand.
func (c *CLI) depAddCommand() *cobra.Command {
	var noVerify bool

	cmd := &cobra.Command{
		Use:   "add <group:artifact:version>...",
		Short: "Declare dependencies after checking they exist in the repository",
		Long: `Declare one or more dependencies. A coordinate whose archive is already in
the local cache is added as is; otherwise the repository is asked whether the
archive exists. Coordinates that fail to parse or cannot be found are
reported and skipped.`,
		Example: `  jsb dep add com.google.code.gson:gson:2.10.1`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, store, err := c.loadProject()
			if err != nil {
				return err
			}
			repo := c.newRepository(cfg)

			failed, added := 0, 0
			for _, arg := range args {
				co, err := coord.Parse(arg)
				if err != nil {
					c.errs.error("%s", errors.UserMessage(err))
					failed++
					continue
				}
				if store.Contains(co) {
					c.out.info("%s is already declared", co)
					continue
				}

				if !noVerify && !store.IsCached(co) {
					spin := newSpinner(ctx, c.stderr, c.errs, fmt.Sprintf("Looking up %s", co))
					spin.Start()
					ok, err := repo.ProbeErr(ctx, co)
					switch {
					case ctx.Err() != nil:
						spin.Stop()
						return ctx.Err()
					case err != nil:
						spin.StopWithError("Could not look up %s: %s", co, errors.UserMessage(err))
						failed++
						continue
					case !ok:
						spin.StopWithError("%s not found in %s", co, repo.BaseURL())
						failed++
						continue
					}
					spin.Stop()
				}

				if _, err := store.Add(co); err != nil {
					return err
				}
				added++
				c.out.success("Added %s", co)
			}

			if added > 0 {
				c.out.nextStep("Download them", "jsb dep fetch")
			}
			if failed > 0 {
				return errors.New(errors.ErrCodeInvalidInput, "%d of %d dependencies not added", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "add without checking the repository")
	return cmd
}

// depRemoveCommand creates the "dep remove" subcommand.
func (c *CLI) depRemoveCommand() *cobra.Command {
	var purge bool

	cmd := &cobra.Command{
		Use:     "remove <group:artifact:version>...",
		Aliases: []string{"rm"},
		Short:   "Remove declared dependencies",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := c.loadProject()
			if err != nil {
				return err
			}

			for _, arg := range args {
				co, err := coord.Parse(arg)
				if err != nil {
					return err
				}
				removed, err := store.Remove(co)
				if err != nil {
					return err
				}
				if !removed {
					c.out.warning("%s is not declared", co)
					continue
				}
				c.out.success("Removed %s", co)

				if purge {
					path := store.CachePath(co)
					if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
						return errors.Wrap(errors.ErrCodeFilesystem, err, "remove %s", path)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&purge, "purge", false, "also delete the cached archive")
	return cmd
}

// depListCommand creates the "dep list" subcommand.
func (c *CLI) depListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List declared dependencies and whether they are cached",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := c.loadProject()
			if err != nil {
				return err
			}
			coords, err := store.List()
			if err != nil {
				return err
			}
			if len(coords) == 0 {
				c.out.info("No dependencies declared")
				c.out.nextStep("Add one", "jsb dep add group:artifact:version")
				return nil
			}

			rows := make([][]string, 0, len(coords))
			missing := 0
			for _, co := range coords {
				state := StyleSuccess.Render("cached")
				if !store.IsCached(co) {
					state = StyleWarning.Render("missing")
					missing++
				}
				rows = append(rows, []string{co.Group, co.Artifact, co.Version, state})
			}
			c.out.plain(renderTable([]string{"Group", "Artifact", "Version", "State"}, rows))
			if missing > 0 {
				c.out.nextStep(fmt.Sprintf("%d missing, download them", missing), "jsb dep fetch")
			}
			return nil
		},
	}
}

// depFetchCommand creates the "dep fetch" subcommand.
func (c *CLI) depFetchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Download declared dependencies missing from the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, store, err := c.loadProject()
			if err != nil {
				return err
			}

			prog := newProgress(loggerFromContext(ctx))
			fetcher := c.newFetcher(cfg, store, loggerFromContext(ctx))
			paths, err := fetcher.FetchMissing(ctx)
			for _, p := range paths {
				c.out.file(p)
			}
			if err != nil {
				return err
			}

			if len(paths) == 0 {
				c.out.info("All dependencies are cached")
				return nil
			}
			prog.done("Fetch finished")
			c.out.success("Fetched %d dependencies into %s", len(paths), store.CacheDir())
			return nil
		},
	}
}
