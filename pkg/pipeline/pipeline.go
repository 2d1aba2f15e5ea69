// Package pipeline drives the build steps of a jsb project.
//
// Each operation is a prefix of the same sequence:
//
//  1. Fetch: download declared dependencies missing from the cache
//  2. Compile: clear stale classes and run the compiler on every source file
//  3. Run: start the main class, or
//  4. Package: assemble the application archive (see package archive)
//
// so Run and Package always fetch and compile first, and stop when
// compilation fails.
//
// # Usage
//
//	r := pipeline.NewRunner(cfg, store, fetcher, process.New(), logger)
//	res, err := r.Run(ctx, []string{"--port", "8080"})
//	if err != nil {
//	    return err
//	}
//	os.Exit(res.ExitCode)
//
// # Results
//
// External tools report through [process.Result]. A tool that ran and
// failed is not a Go error: Compile and Run return the failed Result with a
// nil error, and callers decide how to present it. Errors are reserved for
// problems jsb itself hit (invalid configuration, no sources, downloads,
// filesystem, unsafe archives) and for the COMPILE_FAILED abort of Run and
// Package.
//
// Every operation reports stage timings through the observability hooks and
// tags its log lines with a short run id.
package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/jsb/pkg/archive"
	"github.com/matzehuels/jsb/pkg/config"
	"github.com/matzehuels/jsb/pkg/deps"
	"github.com/matzehuels/jsb/pkg/observability"
)

// Runner runs pipeline operations for one project.
// It is not safe for concurrent use; jsb runs one operation per process.
type Runner struct {
	Config *config.Config
	Store  *deps.Store

	// Fetcher downloads missing dependencies. A nil Fetcher skips the fetch
	// step, for offline builds.
	Fetcher *deps.Fetcher

	Exec   archive.CommandRunner
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger uses log.Default().
func NewRunner(cfg *config.Config, store *deps.Store, fetcher *deps.Fetcher, exec archive.CommandRunner, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Config:  cfg,
		Store:   store,
		Fetcher: fetcher,
		Exec:    exec,
		Logger:  logger,
	}
}

// newRunID returns a short identifier for correlating log lines.
func newRunID() string {
	return uuid.NewString()[:8]
}

// withRun returns a logger tagged with a fresh run id, unless ctx already
// carries one from an enclosing operation.
func (r *Runner) withRun(ctx context.Context) (context.Context, *log.Logger) {
	if l, ok := ctx.Value(runLoggerKey{}).(*log.Logger); ok {
		return ctx, l
	}
	l := r.Logger.With("run", newRunID())
	return context.WithValue(ctx, runLoggerKey{}, l), l
}

type runLoggerKey struct{}

// stage times fn and reports it to the pipeline hooks.
func stage(ctx context.Context, name string, fn func() error) error {
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, name)
	start := time.Now()
	err := fn()
	hooks.OnStageComplete(ctx, name, time.Since(start), err)
	return err
}
