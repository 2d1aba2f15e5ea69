package archive

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/matzehuels/jsb/pkg/coord"
	"github.com/matzehuels/jsb/pkg/errors"
)

// MetadataPrefix marks archive metadata entries that are never staged.
const MetadataPrefix = "META-INF/"

// StageDependencies unpacks every path ending in the archive extension into
// StagingDir and returns the number of files written. Other paths are
// ignored. The staging directory is created if needed and emptied first, so
// classes of dependencies dropped since the last run never reach the archive.
func (a *Assembler) StageDependencies(jars []string) (int, error) {
	if err := a.checkStagingDir(); err != nil {
		return 0, err
	}
	if err := os.MkdirAll(a.StagingDir, 0o755); err != nil {
		return 0, errors.Wrap(errors.ErrCodeFilesystem, err, "create %s", a.StagingDir)
	}
	if err := EmptyDir(a.StagingDir); err != nil {
		return 0, err
	}
	root, err := canonicalRoot(a.StagingDir)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, jar := range jars {
		if !strings.HasSuffix(jar, coord.ArchiveExt) {
			a.logger().Debug("Skipping non-archive", "path", jar)
			continue
		}
		n, err := extractArchive(jar, root)
		total += n
		if err != nil {
			return total, err
		}
		a.logger().Debug("Staged archive", "path", jar, "files", n)
	}
	return total, nil
}

// checkStagingDir refuses a staging directory that would hold the archive
// cache or the compiled output, since staging empties it.
func (a *Assembler) checkStagingDir() error {
	if a.StagingDir == "" {
		return errors.New(errors.ErrCodeInvalidPath, "staging directory is not set")
	}
	staging, err := filepath.Abs(a.StagingDir)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", a.StagingDir)
	}
	for _, other := range []string{a.DepDir, a.OutputDir} {
		if other == "" {
			continue
		}
		if abs, err := filepath.Abs(other); err == nil && abs == staging {
			return errors.New(errors.ErrCodeInvalidPath, "staging directory %s must differ from %s", a.StagingDir, other)
		}
	}
	return nil
}

func canonicalRoot(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFilesystem, err, "resolve %s", dir)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFilesystem, err, "resolve %s", dir)
	}
	return resolved, nil
}

func extractArchive(jar, root string) (int, error) {
	r, err := zip.OpenReader(jar)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeFilesystem, err, "open archive %s", jar)
	}
	defer r.Close()

	count := 0
	for _, f := range r.File {
		if strings.HasPrefix(f.Name, MetadataPrefix) {
			continue
		}
		target, err := entryTarget(root, f.Name)
		if err != nil {
			return count, errors.Wrap(errors.ErrCodeUnsafeArchiveEntry, err, "archive %s", jar)
		}

		if f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/") {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return count, errors.Wrap(errors.ErrCodeFilesystem, err, "create %s", target)
			}
			continue
		}

		if err := writeEntry(f, target); err != nil {
			return count, errors.Wrap(errors.ErrCodeFilesystem, err, "extract %s from %s", f.Name, jar)
		}
		count++
	}
	return count, nil
}

// entryTarget maps an entry name to its path under root, rejecting names
// that would land outside it.
func entryTarget(root, name string) (string, error) {
	if err := errors.ValidateEntryName(name); err != nil {
		return "", err
	}
	rel := filepath.FromSlash(strings.TrimSuffix(strings.ReplaceAll(name, "\\", "/"), "/"))
	target := filepath.Join(root, rel)
	if !within(root, target) {
		return "", errors.New(errors.ErrCodeUnsafeArchiveEntry, "entry %q escapes the extraction root", name)
	}
	return target, nil
}

func within(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

func writeEntry(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}
