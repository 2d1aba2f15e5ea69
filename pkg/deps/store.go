package deps

import (
	"os"
	"path/filepath"

	"github.com/matzehuels/jsb/pkg/config"
	"github.com/matzehuels/jsb/pkg/coord"
	"github.com/matzehuels/jsb/pkg/errors"
)

// Store is the project's declared dependency set.
// It is not safe for concurrent use.
type Store struct {
	cfg  *config.Config
	path string
}

// NewStore returns a store over cfg that persists to the project file at path.
func NewStore(cfg *config.Config, path string) *Store {
	return &Store{cfg: cfg, path: path}
}

// CacheDir returns the directory holding downloaded archives.
func (s *Store) CacheDir() string {
	return s.cfg.CacheDir()
}

// List returns the declared coordinates in declaration order.
// A malformed entry fails with INVALID_COORDINATE naming its position.
func (s *Store) List() ([]coord.Coordinate, error) {
	out := make([]coord.Coordinate, 0, len(s.cfg.Deps.Coordinates))
	for i, raw := range s.cfg.Deps.Coordinates {
		c, err := coord.Parse(raw)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidCoordinate, err, "deps.coordinates[%d]", i)
		}
		out = append(out, c)
	}
	return out, nil
}

// Contains reports whether c is declared.
func (s *Store) Contains(c coord.Coordinate) bool {
	want := c.String()
	for _, raw := range s.cfg.Deps.Coordinates {
		if canonical(raw) == want {
			return true
		}
	}
	return false
}

// Add declares c and persists the list. It reports false, without writing,
// when c is already declared.
func (s *Store) Add(c coord.Coordinate) (bool, error) {
	if err := c.Validate(); err != nil {
		return false, err
	}
	if s.Contains(c) {
		return false, nil
	}
	prev := s.cfg.Deps.Coordinates
	s.cfg.Deps.Coordinates = append(append([]string{}, prev...), c.String())
	if err := s.cfg.Save(s.path); err != nil {
		s.cfg.Deps.Coordinates = prev
		return false, err
	}
	return true, nil
}

// Remove drops every entry equal to c and persists the list. It reports
// false, without writing, when nothing matched.
func (s *Store) Remove(c coord.Coordinate) (bool, error) {
	want := c.String()
	prev := s.cfg.Deps.Coordinates
	kept := make([]string, 0, len(prev))
	for _, raw := range prev {
		if canonical(raw) != want {
			kept = append(kept, raw)
		}
	}
	if len(kept) == len(prev) {
		return false, nil
	}
	s.cfg.Deps.Coordinates = kept
	if err := s.cfg.Save(s.path); err != nil {
		s.cfg.Deps.Coordinates = prev
		return false, err
	}
	return true, nil
}

// CachePath returns where the archive for c lives once fetched.
func (s *Store) CachePath(c coord.Coordinate) string {
	return filepath.Join(s.CacheDir(), c.ArchiveFileName())
}

// IsCached reports whether the archive for c is present in the cache.
func (s *Store) IsCached(c coord.Coordinate) bool {
	info, err := os.Stat(s.CachePath(c))
	return err == nil && info.Mode().IsRegular()
}

// Cached returns the declared coordinates whose archive is present.
func (s *Store) Cached() ([]coord.Coordinate, error) {
	return s.filter(true)
}

// ResolveMissing returns the declared coordinates whose archive is absent.
// It only looks at the local cache.
func (s *Store) ResolveMissing() ([]coord.Coordinate, error) {
	return s.filter(false)
}

// CachedPaths returns the cache paths of [Store.Cached].
func (s *Store) CachedPaths() ([]string, error) {
	cached, err := s.Cached()
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(cached))
	for i, c := range cached {
		paths[i] = s.CachePath(c)
	}
	return paths, nil
}

func (s *Store) filter(cached bool) ([]coord.Coordinate, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}
	var out []coord.Coordinate
	for _, c := range all {
		if s.IsCached(c) == cached {
			out = append(out, c)
		}
	}
	return out, nil
}

// canonical normalizes a stored entry for comparison. Malformed entries
// compare by their raw text.
func canonical(raw string) string {
	c, err := coord.Parse(raw)
	if err != nil {
		return raw
	}
	return c.String()
}
