package process

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"time"

	jsberrors "github.com/matzehuels/jsb/pkg/errors"
)

// DefaultTailLines is how many trailing output lines a Result keeps.
const DefaultTailLines = 20

// waitDelay bounds how long Wait blocks on inherited pipes after the child
// was killed.
const waitDelay = 2 * time.Second

// Runner starts child processes.
type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader

	// Env holds KEY=VALUE overrides appended to the parent environment.
	Env []string

	// Dir is the working directory; empty means the parent's.
	Dir string

	// Shell, when non-empty, is a prefix such as ["sh", "-c"]; the argv is
	// quoted into a single command string passed after it.
	Shell []string

	// TailLines bounds Result.Tail. Zero selects DefaultTailLines;
	// negative disables capture.
	TailLines int
}

// New returns a Runner attached to the parent's standard streams.
func New() *Runner {
	return &Runner{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Stdin:  os.Stdin,
	}
}

// Result describes one finished (or never started) child process.
type Result struct {
	Argv     []string
	ExitCode int
	Tail     []string
	Duration time.Duration

	// Err is set when the process could not be started (PROCESS_SPAWN) or
	// was interrupted by context cancellation.
	Err error
}

// Success reports whether the process started and exited with status 0.
func (r Result) Success() bool {
	return r.Err == nil && r.ExitCode == 0
}

// Run executes argv and waits for it. Cancelling ctx kills the child.
func (r *Runner) Run(ctx context.Context, argv []string) Result {
	res := Result{Argv: argv, ExitCode: -1}
	if len(argv) == 0 || argv[0] == "" {
		res.Err = jsberrors.New(jsberrors.ErrCodeProcessSpawn, "empty command")
		return res
	}

	cmdArgv := argv
	if len(r.Shell) > 0 {
		cmdArgv = append(append([]string{}, r.Shell...), joinFor(r.Shell, argv))
	}

	cmd := exec.CommandContext(ctx, cmdArgv[0], cmdArgv[1:]...)
	cmd.Dir = r.Dir
	cmd.Stdin = r.Stdin
	cmd.WaitDelay = waitDelay
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}

	var tail *lineTail
	if r.TailLines >= 0 {
		n := r.TailLines
		if n == 0 {
			n = DefaultTailLines
		}
		tail = newLineTail(n)
	}
	cmd.Stdout = tee(r.Stdout, tail)
	cmd.Stderr = tee(r.Stderr, tail)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		res.Duration = time.Since(start)
		res.Err = jsberrors.Wrap(jsberrors.ErrCodeProcessSpawn, err, "start %s", argv[0])
		return res
	}
	err := cmd.Wait()
	res.Duration = time.Since(start)
	if tail != nil {
		res.Tail = tail.Lines()
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.ExitCode = 0
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		res.Err = jsberrors.Wrap(jsberrors.ErrCodeInternal, err, "wait for %s", argv[0])
	}
	if ctxErr := ctx.Err(); ctxErr != nil && res.Err == nil {
		res.Err = ctxErr
	}
	return res
}

// RunOK executes argv and reports only whether it succeeded.
func (r *Runner) RunOK(ctx context.Context, argv []string) bool {
	return r.Run(ctx, argv).Success()
}

func tee(w io.Writer, tail *lineTail) io.Writer {
	switch {
	case w == nil && tail == nil:
		return nil
	case w == nil:
		return tail
	case tail == nil:
		return w
	default:
		return io.MultiWriter(w, tail)
	}
}
