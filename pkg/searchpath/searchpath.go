// Package searchpath builds the class search path passed to the compiler and
// the runtime with -cp.
//
// The separator is supplied by the caller (platform.separator in jsb.toml);
// this package never inspects the operating system.
package searchpath

import (
	"path/filepath"
	"strings"
)

// Wildcard is the JVM marker that expands to every archive in a directory.
const Wildcard = "*"

// Root is one search-path entry.
type Root struct {
	Dir string

	// Expand emits Dir/* so the JVM includes every archive in Dir.
	Expand bool
}

// Build joins roots with sep in order. Roots with an empty Dir are skipped.
func Build(roots []Root, sep string) string {
	parts := make([]string, 0, len(roots))
	for _, r := range roots {
		if r.Dir == "" {
			continue
		}
		if r.Expand {
			parts = append(parts, filepath.Join(r.Dir, Wildcard))
			continue
		}
		parts = append(parts, r.Dir)
	}
	return strings.Join(parts, sep)
}

// Classpath returns the standard build order: compiled output, every
// archive in the dependency cache, then the source tree.
func Classpath(outputDir, depDir, sourceDir, sep string) string {
	return Build([]Root{
		{Dir: outputDir},
		{Dir: depDir, Expand: true},
		{Dir: sourceDir},
	}, sep)
}
