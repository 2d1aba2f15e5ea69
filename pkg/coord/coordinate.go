package coord

import (
	"strings"
	"unicode"

	"github.com/matzehuels/jsb/pkg/errors"
)

// ArchiveExt is the file extension of library artifacts.
const ArchiveExt = ".jar"

// Coordinate is a parsed "group:artifact:version" reference.
//
// All three fields are non-empty in a Coordinate returned by [Parse].
// Coordinates are plain values and safe to copy and compare with ==.
type Coordinate struct {
	Group    string // e.g. "org.apache.commons"
	Artifact string // e.g. "commons-lang3"
	Version  string // e.g. "3.14.0"
}

// Parse parses a "group:artifact:version" string.
//
// Surrounding whitespace is ignored. Parse fails with
// [errors.ErrCodeInvalidCoordinate] unless the input splits on ':' into
// exactly three parts that pass [Coordinate.Validate].
func Parse(s string) (Coordinate, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return Coordinate{}, errors.New(errors.ErrCodeInvalidCoordinate,
			"invalid coordinate %q (expected groupId:artifactId:version)", s)
	}
	c := Coordinate{Group: parts[0], Artifact: parts[1], Version: parts[2]}
	if err := c.Validate(); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}

// Validate checks that every part is non-blank and safe to use as a path
// segment. Separators, control characters and the "." and ".." segments
// are rejected, so [Coordinate.ArchiveFileName] always names a file directly
// inside the cache directory and [Coordinate.RemotePath] stays below the
// repository root.
func (c Coordinate) Validate() error {
	for _, p := range []struct{ name, value string }{
		{"group", c.Group},
		{"artifact", c.Artifact},
		{"version", c.Version},
	} {
		if strings.TrimSpace(p.value) == "" {
			return errors.New(errors.ErrCodeInvalidCoordinate,
				"invalid coordinate %q (empty %s)", c.String(), p.name)
		}
		if p.value == "." || p.value == ".." || strings.ContainsAny(p.value, `/\`) || hasControl(p.value) {
			return errors.New(errors.ErrCodeInvalidCoordinate,
				"invalid coordinate %q (%s %q is not a plain name)", c.String(), p.name, p.value)
		}
	}
	for _, seg := range strings.Split(c.Group, ".") {
		if seg == "" {
			return errors.New(errors.ErrCodeInvalidCoordinate,
				"invalid coordinate %q (empty group segment)", c.String())
		}
	}
	return nil
}

func hasControl(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}

// MustParse is like [Parse] but panics on error.
func MustParse(s string) Coordinate {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseList parses every string in list, stopping at the first failure.
func ParseList(list []string) ([]Coordinate, error) {
	out := make([]Coordinate, 0, len(list))
	for _, s := range list {
		c, err := Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// String returns the canonical "group:artifact:version" form.
func (c Coordinate) String() string {
	return c.Group + ":" + c.Artifact + ":" + c.Version
}

// ArchiveFileName returns the artifact file name, "{artifact}-{version}.jar".
func (c Coordinate) ArchiveFileName() string {
	return c.Artifact + "-" + c.Version + ArchiveExt
}

// RemotePath returns the repository-relative path of the artifact:
// the group with dots replaced by slashes, then artifact, version and
// [Coordinate.ArchiveFileName].
func (c Coordinate) RemotePath() string {
	return strings.ReplaceAll(c.Group, ".", "/") + "/" + c.Artifact + "/" + c.Version + "/" + c.ArchiveFileName()
}

// URL joins baseURL and [Coordinate.RemotePath] with exactly one slash.
func (c Coordinate) URL(baseURL string) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + c.RemotePath()
}
