// Package project scaffolds new jsb projects.
package project

import (
	"os"
	"path/filepath"

	"github.com/matzehuels/jsb/pkg/config"
	"github.com/matzehuels/jsb/pkg/errors"
)

const mainSource = `public class Main {
    public static void main(String[] args) {
        System.out.println("Hello, World!");
    }
}
`

// Result lists what Init created. Paths that already existed are in
// Existing and were left untouched.
type Result struct {
	Created  []string
	Existing []string
}

// Init lays out a project in dir using cfg's directory names: the source
// and resource directories, a hello-world Main.java and the project file.
// Nothing that already exists is overwritten.
func Init(dir string, cfg *config.Config) (Result, error) {
	var res Result
	if cfg == nil {
		cfg = config.Default()
	}
	proj := *cfg
	proj.Dir = dir

	for _, d := range []string{proj.SourceDir(), proj.ResourceDir()} {
		if _, err := os.Stat(d); err == nil {
			res.Existing = append(res.Existing, d)
			continue
		}
		if err := os.MkdirAll(d, 0o755); err != nil {
			return res, errors.Wrap(errors.ErrCodeFilesystem, err, "create %s", d)
		}
		res.Created = append(res.Created, d)
	}

	mainPath := filepath.Join(proj.SourceDir(), "Main.java")
	created, err := writeIfAbsent(mainPath, []byte(mainSource))
	if err != nil {
		return res, err
	}
	res.record(mainPath, created)

	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		res.Existing = append(res.Existing, cfgPath)
		return res, nil
	}
	if err := proj.Save(cfgPath); err != nil {
		return res, err
	}
	res.Created = append(res.Created, cfgPath)
	return res, nil
}

func (r *Result) record(path string, created bool) {
	if created {
		r.Created = append(r.Created, path)
	} else {
		r.Existing = append(r.Existing, path)
	}
}

// writeIfAbsent creates path with data unless it already exists.
func writeIfAbsent(path string, data []byte) (bool, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if os.IsExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeFilesystem, err, "create %s", path)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return false, errors.Wrap(errors.ErrCodeFilesystem, err, "write %s", path)
	}
	if err := f.Close(); err != nil {
		return false, errors.Wrap(errors.ErrCodeFilesystem, err, "write %s", path)
	}
	return true, nil
}
