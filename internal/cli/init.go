package cli

import (
	"github.com/spf13/cobra"

	projectpkg "github.com/matzehuels/jsb/pkg/project"
)

// initCommand creates the "init" command that scaffolds a project.
func (c *CLI) initCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a project skeleton in the project directory",
		Long: `Create the source and resource directories, a hello-world Main.java and
a jsb.toml with default settings. Existing files are left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := c.loadProject()
			if err != nil {
				return err
			}
			res, err := projectpkg.Init(cfg.Dir, cfg)
			if err != nil {
				return err
			}

			if len(res.Created) == 0 {
				c.out.info("Project already initialized")
			} else {
				c.out.success("Initialized project in %s", cfg.Dir)
			}
			for _, p := range res.Created {
				c.out.file(p)
			}
			for _, p := range res.Existing {
				c.out.detail("exists: %s", p)
			}
			c.out.nextStep("Run it", "jsb run")
			return nil
		},
	}
}
