package pipeline

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/jsb/pkg/archive"
	"github.com/matzehuels/jsb/pkg/errors"
	"github.com/matzehuels/jsb/pkg/observability"
	"github.com/matzehuels/jsb/pkg/process"
	"github.com/matzehuels/jsb/pkg/searchpath"
)

const (
	sourceExt = ".java"
	classExt  = ".class"
)

// Fetch downloads every declared dependency missing from the cache.
func (r *Runner) Fetch(ctx context.Context) error {
	ctx, logger := r.withRun(ctx)
	if r.Fetcher == nil {
		logger.Debug("Skipping dependency fetch")
		return nil
	}
	return stage(ctx, observability.StageFetch, func() error {
		paths, err := r.Fetcher.FetchMissing(ctx)
		if err != nil {
			return err
		}
		if len(paths) > 0 {
			logger.Info("Dependencies ready", "fetched", len(paths))
		}
		return nil
	})
}

// Classpath returns the search path used for compiling and running.
func (r *Runner) Classpath() string {
	cfg := r.Config
	return searchpath.Classpath(cfg.OutputDir(), cfg.CacheDir(), cfg.SourceDir(), cfg.Platform.Separator)
}

// Sources lists the source files under the source directory, sorted.
// It fails with NO_SOURCES when there are none.
func (r *Runner) Sources() ([]string, error) {
	root := r.Config.SourceDir()
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && strings.HasSuffix(d.Name(), sourceExt) {
			files = append(files, path)
		}
		return nil
	})
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeNoSources, "source directory %s does not exist", root)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFilesystem, err, "scan %s", root)
	}
	if len(files) == 0 {
		return nil, errors.New(errors.ErrCodeNoSources, "no %s files in %s", sourceExt, root)
	}
	sort.Strings(files)
	return files, nil
}

// CompileCommand returns the compiler invocation for files.
func (r *Runner) CompileCommand(files []string) []string {
	cfg := r.Config
	argv := []string{cfg.Build.Command, "-d", cfg.OutputDir(), "-cp", r.Classpath()}
	if cfg.Build.Verbose {
		argv = append(argv, "-verbose")
	}
	return append(argv, files...)
}

// RunCommand returns the launcher invocation with program arguments.
func (r *Runner) RunCommand(args []string) []string {
	cfg := r.Config
	argv := []string{cfg.Java.Command, "-cp", r.Classpath(), cfg.Java.MainClass}
	return append(argv, args...)
}

// Compile fetches dependencies and compiles every source file into the
// output directory. Class files left from earlier builds are removed first.
// A compiler that runs and fails is reported through the Result only.
func (r *Runner) Compile(ctx context.Context) (process.Result, error) {
	ctx, logger := r.withRun(ctx)
	if err := r.Fetch(ctx); err != nil {
		return process.Result{}, err
	}

	var res process.Result
	err := stage(ctx, observability.StageCompile, func() error {
		files, err := r.Sources()
		if err != nil {
			return err
		}
		if err := prepareOutput(r.Config.OutputDir()); err != nil {
			return err
		}

		argv := r.CompileCommand(files)
		logger.Info("Compiling", "sources", len(files), "output", r.Config.OutputDir())
		logger.Debug("Running compiler", "argv", process.Join(argv))
		res = r.Exec.Run(ctx, argv)
		logResult(logger, "Compilation", res)
		return nil
	})
	return res, err
}

// Run compiles and then starts the main class with args.
func (r *Runner) Run(ctx context.Context, args []string) (process.Result, error) {
	ctx, logger := r.withRun(ctx)
	res, err := r.Compile(ctx)
	if err != nil {
		return res, err
	}
	if !res.Success() {
		return res, compileFailed(res)
	}

	err = stage(ctx, observability.StageRun, func() error {
		argv := r.RunCommand(args)
		logger.Info("Running", "main", r.Config.Java.MainClass)
		logger.Debug("Running program", "argv", process.Join(argv))
		res = r.Exec.Run(ctx, argv)
		logResult(logger, "Program", res)
		return nil
	})
	return res, err
}

// Assembler returns the archive assembler configured for this project.
func (r *Runner) Assembler() *archive.Assembler {
	cfg := r.Config
	return &archive.Assembler{
		OutputDir:   cfg.OutputDir(),
		StagingDir:  cfg.StagingDir(),
		DepDir:      cfg.CacheDir(),
		ResourceDir: cfg.ResourceDir(),
		ArchivePath: cfg.ArchivePath(),
		MainClass:   cfg.Java.MainClass,
		Archiver:    cfg.Package.Command,
		Runner:      r.Exec,
		Logger:      r.Logger,
	}
}

// Package compiles and assembles the application archive from the compiled
// output and every cached dependency.
func (r *Runner) Package(ctx context.Context) (archive.Report, error) {
	ctx, logger := r.withRun(ctx)
	res, err := r.Compile(ctx)
	if err != nil {
		return archive.Report{}, err
	}
	if !res.Success() {
		return archive.Report{}, compileFailed(res)
	}

	var rep archive.Report
	err = stage(ctx, observability.StagePackage, func() error {
		jars, err := r.Store.CachedPaths()
		if err != nil {
			return err
		}
		asm := r.Assembler()
		asm.Logger = logger
		logger.Info("Packaging", "archive", asm.ArchivePath, "dependencies", len(jars))
		rep, err = asm.Assemble(ctx, jars)
		if err != nil {
			return err
		}
		logResult(logger, "Packaging", rep.Archive)
		return nil
	})
	return rep, err
}

// prepareOutput creates dir, or removes class files left in it.
func prepareOutput(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeFilesystem, err, "create %s", dir)
	}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), classExt) {
			return os.Remove(path)
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeFilesystem, err, "clean %s", dir)
	}
	return nil
}

func compileFailed(res process.Result) error {
	if res.Err != nil {
		return errors.Wrap(errors.ErrCodeCompileFailed, res.Err, "compilation did not run")
	}
	return errors.New(errors.ErrCodeCompileFailed, "compilation failed with exit code %d", res.ExitCode)
}

func logResult(logger *log.Logger, what string, res process.Result) {
	switch {
	case res.Err != nil:
		logger.Error(what+" could not start", "error", res.Err)
	case res.ExitCode != 0:
		logger.Error(what+" failed", "exit", res.ExitCode, "elapsed", res.Duration.Round(time.Millisecond))
	default:
		logger.Info(what+" finished", "elapsed", res.Duration.Round(time.Millisecond))
	}
}
