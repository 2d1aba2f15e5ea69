// Package cli implements the jsb command-line interface.
package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jsb/internal/metrics"
	"github.com/matzehuels/jsb/pkg/buildinfo"
	"github.com/matzehuels/jsb/pkg/cache"
	"github.com/matzehuels/jsb/pkg/config"
	"github.com/matzehuels/jsb/pkg/deps"
	"github.com/matzehuels/jsb/pkg/errors"
	"github.com/matzehuels/jsb/pkg/integrations/maven"
	"github.com/matzehuels/jsb/pkg/observability"
	"github.com/matzehuels/jsb/pkg/pipeline"
	"github.com/matzehuels/jsb/pkg/process"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "jsb"

	// probeCacheDir is the subdirectory of the user cache holding probe results.
	probeCacheDir = "probes"

	// exitInterrupted is the shell convention for a SIGINT-terminated command.
	exitInterrupted = 130
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	stdout io.Writer
	stderr io.Writer
	out    *printer
	errs   *printer

	dir         string
	configFile  string
	verbose     bool
	metricsFile string
	recorder    *metrics.Recorder
}

// New creates a CLI that prints results to stdout and logs to stderr.
func New(stdout, stderr io.Writer) *CLI {
	return &CLI{
		Logger: newLogger(stderr, log.InfoLevel),
		stdout: stdout,
		stderr: stderr,
		out:    &printer{w: stdout},
		errs:   &printer{w: stderr},
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "jsb builds, runs and packages small Java projects",
		Long:          `jsb is a minimal build tool for Java projects. It fetches declared dependencies from a Maven repository, compiles sources, runs the main class and assembles a runnable archive with every dependency inlined.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := log.InfoLevel
			if c.verbose {
				level = log.DebugLevel
			}
			c.Logger.SetLevel(level)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))

			if c.metricsFile != "" {
				c.recorder = metrics.NewRecorder(nil)
				c.recorder.Register()
			}
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVarP(&c.dir, "dir", "C", ".", "project directory")
	flags.StringVar(&c.configFile, "config", config.FileName, "project file, relative to --dir")
	flags.StringVar(&c.metricsFile, "metrics-file", "", "write Prometheus metrics to this file after the command")

	root.AddCommand(c.initCommand())
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.runCommand())
	root.AddCommand(c.packageCommand())
	root.AddCommand(c.depCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// Execute runs the command line args and reports any failure on stderr.
// Use [ExitCode] to turn the returned error into a process status.
func (c *CLI) Execute(ctx context.Context, args []string) error {
	root := c.RootCommand()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if c.recorder != nil {
		if werr := c.recorder.WriteFile(c.metricsFile); werr != nil {
			c.Logger.Warn("Could not write metrics", "path", c.metricsFile, "error", werr)
		}
		observability.Reset()
		c.recorder = nil
	}

	var exit *ExitError
	switch {
	case err == nil, stderrors.As(err, &exit):
	case stderrors.Is(err, context.Canceled):
		c.errs.warning("Interrupted")
	default:
		c.errs.error("%s", errors.UserMessage(err))
	}
	return err
}

// =============================================================================
// Exit codes
// =============================================================================

// ExitError carries the status of an external tool whose failure was already
// reported, so the process can exit with the same code.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode maps an Execute error to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if stderrors.Is(err, context.Canceled) {
		return exitInterrupted
	}
	var exit *ExitError
	if stderrors.As(err, &exit) && exit.Code > 0 {
		return exit.Code
	}
	return 1
}

// =============================================================================
// Project Factory
// =============================================================================

// configPath returns the absolute project file location, resolving --config
// against --dir. Every project path derives from it, so child processes see
// the same files whatever their working directory.
func (c *CLI) configPath() (string, error) {
	path := c.configFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.dir, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", path)
	}
	return abs, nil
}

// loadProject reads the project file and opens its dependency store.
func (c *CLI) loadProject() (*config.Config, *deps.Store, error) {
	path, err := c.configPath()
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, nil, err
	}
	return cfg, deps.NewStore(cfg, path), nil
}

// newRepository creates a repository client whose positive probes are kept
// in the user cache. Without a usable cache directory probes are not cached.
func (c *CLI) newRepository(cfg *config.Config) *maven.Client {
	var probes cache.Cache = cache.NewNullCache()
	if dir, err := cacheDir(); err == nil {
		if fc, err := cache.NewFileCache(filepath.Join(dir, probeCacheDir)); err == nil {
			probes = fc
		} else {
			c.Logger.Debug("Probe cache disabled", "error", err)
		}
	}
	return maven.NewClient(cfg.Deps.Repository,
		maven.WithCache(probes, cfg.Deps.ProbeCacheTTL.Duration),
		maven.WithKeyer(cache.NewScopedKeyer(nil, appName+":")),
	)
}

// newFetcher creates a fetcher that downloads into store's cache directory.
func (c *CLI) newFetcher(cfg *config.Config, store *deps.Store, logger *log.Logger) *deps.Fetcher {
	return &deps.Fetcher{
		Store:      store,
		Downloader: c.newRepository(cfg),
		Retries:    cfg.Deps.Retries,
		Logger:     logger,
	}
}

// newPipeline wires a pipeline runner for the project in the current directory flags.
func (c *CLI) newPipeline(ctx context.Context) (*pipeline.Runner, error) {
	cfg, store, err := c.loadProject()
	if err != nil {
		return nil, err
	}
	logger := loggerFromContext(ctx)

	exec := process.New()
	exec.Stdout = c.stdout
	exec.Stderr = c.stderr
	exec.Dir = cfg.Dir
	exec.Shell = cfg.Platform.ShellPrefix()

	return pipeline.NewRunner(cfg, store, c.newFetcher(cfg, store, logger), exec, logger), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/jsb/).
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
