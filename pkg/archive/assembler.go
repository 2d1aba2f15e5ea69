package archive

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/jsb/pkg/coord"
	"github.com/matzehuels/jsb/pkg/errors"
	"github.com/matzehuels/jsb/pkg/observability"
	"github.com/matzehuels/jsb/pkg/process"
)

// CommandRunner runs an external command. *process.Runner implements it.
type CommandRunner interface {
	Run(ctx context.Context, argv []string) process.Result
}

// Assembler builds the application archive from compiled output, resources
// and cached dependency archives.
type Assembler struct {
	OutputDir   string // compiled classes; emptied after packaging
	StagingDir  string // unpacked dependency classes
	DepDir      string // dependency archive cache
	ResourceDir string // optional; copied over OutputDir
	ArchivePath string
	MainClass   string
	Archiver    string // archiver executable, e.g. "jar"

	Runner CommandRunner
	Logger *log.Logger
}

// Report summarizes one packaging run.
type Report struct {
	Staged    int
	Resources int
	Archive   process.Result

	// CleanupErr is set when emptying OutputDir failed. The archive is
	// kept either way.
	CleanupErr error
}

// Command returns the archiver invocation.
func (a *Assembler) Command() []string {
	return []string{
		a.Archiver,
		"--create",
		"--file=" + a.ArchivePath,
		"-e", a.MainClass,
		"-C", a.OutputDir, ".",
		"-C", a.StagingDir, ".",
	}
}

// DepArchives lists the archives directly inside DepDir, sorted by name.
func (a *Assembler) DepArchives() ([]string, error) {
	if a.DepDir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(a.DepDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFilesystem, err, "read %s", a.DepDir)
	}
	var out []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), coord.ArchiveExt) {
			out = append(out, filepath.Join(a.DepDir, e.Name()))
		}
	}
	return out, nil
}

// Assemble stages jars (every archive in DepDir when jars is nil), copies resources, runs the archiver and empties the
// compiled output.
//
// Failures before the archiver runs are returned as errors and leave the
// output and staging directories as they are. An archiver failure is only
// visible through Report.Archive; cleanup still runs.
func (a *Assembler) Assemble(ctx context.Context, jars []string) (Report, error) {
	var rep Report
	hooks := observability.Pipeline()

	if jars == nil {
		found, err := a.DepArchives()
		if err != nil {
			return rep, err
		}
		jars = found
	}

	hooks.OnStageStart(ctx, observability.StageStage)
	start := time.Now()
	n, err := a.StageDependencies(jars)
	hooks.OnStageComplete(ctx, observability.StageStage, time.Since(start), err)
	rep.Staged = n
	if err != nil {
		return rep, err
	}

	if rep.Resources, err = a.CopyResources(); err != nil {
		return rep, err
	}

	if err := os.MkdirAll(filepath.Dir(a.ArchivePath), 0o755); err != nil {
		return rep, errors.Wrap(errors.ErrCodeFilesystem, err, "create %s", filepath.Dir(a.ArchivePath))
	}

	argv := a.Command()
	a.logger().Debug("Running archiver", "argv", process.Join(argv))
	rep.Archive = a.Runner.Run(ctx, argv)

	hooks.OnStageStart(ctx, observability.StageCleanup)
	start = time.Now()
	rep.CleanupErr = a.Cleanup()
	hooks.OnStageComplete(ctx, observability.StageCleanup, time.Since(start), rep.CleanupErr)
	if rep.CleanupErr != nil {
		a.logger().Warn("Could not clean compiled output", "dir", a.OutputDir, "error", rep.CleanupErr)
	}
	return rep, nil
}

// CopyResources copies every regular file under ResourceDir into OutputDir,
// keeping relative paths and overwriting existing files. A missing
// ResourceDir copies nothing.
func (a *Assembler) CopyResources() (int, error) {
	if a.ResourceDir == "" {
		return 0, nil
	}
	info, err := os.Stat(a.ResourceDir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeFilesystem, err, "stat %s", a.ResourceDir)
	}
	if !info.IsDir() {
		return 0, errors.New(errors.ErrCodeInvalidPath, "resource path %s is not a directory", a.ResourceDir)
	}

	count := 0
	err = filepath.WalkDir(a.ResourceDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(a.ResourceDir, path)
		if err != nil {
			return err
		}
		if err := copyFile(path, filepath.Join(a.OutputDir, rel)); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return count, errors.Wrap(errors.ErrCodeFilesystem, err, "copy resources from %s", a.ResourceDir)
	}
	return count, nil
}

// Cleanup removes everything inside OutputDir, keeping the directory.
func (a *Assembler) Cleanup() error {
	return EmptyDir(a.OutputDir)
}

// EmptyDir removes the contents of dir. A missing dir is not an error.
func EmptyDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeFilesystem, err, "read %s", dir)
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return errors.Wrap(errors.ErrCodeFilesystem, err, "remove %s", e.Name())
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func (a *Assembler) logger() *log.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return log.Default()
}
