package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/jsb/pkg/process"
)

// buildCommand creates the "build" command: fetch missing dependencies and compile.
func (c *CLI) buildCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Fetch missing dependencies and compile the sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := c.newPipeline(ctx)
			if err != nil {
				return err
			}

			prog := newProgress(loggerFromContext(ctx))
			res, err := p.Compile(ctx)
			if err != nil {
				return err
			}
			if err := c.checkResult("Compilation", res); err != nil {
				return err
			}
			prog.done("Build finished")
			c.out.success("Compiled into %s", p.Config.OutputDir())
			return nil
		},
	}
}

// runCommand creates the "run" command. Arguments after "--" go to the program.
func (c *CLI) runCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run [-- args...]",
		Short: "Build and run the main class",
		Example: `  jsb run
  jsb run -- --port 8080`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := c.newPipeline(ctx)
			if err != nil {
				return err
			}
			res, err := p.Run(ctx, args)
			if err != nil {
				return err
			}
			return c.checkResult(p.Config.Java.MainClass, res)
		},
	}
}

// packageCommand creates the "package" command that assembles the runnable archive.
func (c *CLI) packageCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "package",
		Short: "Build and assemble a runnable archive with dependencies inlined",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := c.newPipeline(ctx)
			if err != nil {
				return err
			}

			prog := newProgress(loggerFromContext(ctx))
			report, err := p.Package(ctx)
			if err != nil {
				return err
			}
			c.warnCleanup(p.Config.OutputDir(), report.CleanupErr)
			if err := c.checkResult("Packaging", report.Archive); err != nil {
				return err
			}
			prog.done("Package finished")

			c.out.success("Packaged %s", p.Config.Package.Name)
			c.out.file(p.Config.ArchivePath())
			c.out.detail("%d dependency entries, %d resources", report.Staged, report.Resources)
			return nil
		},
	}
}

// warnCleanup reports that the compiled output could not be emptied after
// packaging. The archive itself is unaffected.
func (c *CLI) warnCleanup(outputDir string, err error) {
	if err == nil {
		return
	}
	c.errs.warning("Could not empty compiled output %s: %v", outputDir, err)
}

// checkResult turns a failed external tool into an error. Spawn failures keep
// their PROCESS_SPAWN error; non-zero exits become an ExitError after the
// failure is reported.
func (c *CLI) checkResult(what string, res process.Result) error {
	if res.Success() {
		return nil
	}
	if res.Err != nil {
		return res.Err
	}
	c.errs.error("%s failed with exit code %d", what, res.ExitCode)
	return &ExitError{Code: res.ExitCode}
}
