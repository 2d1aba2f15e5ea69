package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateEntryName validates the name of an entry inside a dependency archive.
// It rejects names that could write outside the extraction root.
//
// Validation rules:
//   - Name cannot be empty
//   - No null bytes or control characters
//   - No absolute paths or volume names (C:, \\host)
//   - No path traversal that climbs above the root (.. after cleaning)
//
// Archive entry names always use forward slashes; backslashes are treated as
// separators too so that a Windows-produced archive cannot smuggle traversal.
func ValidateEntryName(name string) error {
	if name == "" {
		return New(ErrCodeUnsafeArchiveEntry, "entry name cannot be empty")
	}

	for _, r := range name {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeUnsafeArchiveEntry, "entry %q contains invalid characters", name)
		}
	}

	normalized := strings.ReplaceAll(name, "\\", "/")
	if strings.HasPrefix(normalized, "/") {
		return New(ErrCodeUnsafeArchiveEntry, "entry %q is an absolute path", name)
	}

	// A trailing slash marks a directory; IsLocal wants the bare path.
	trimmed := strings.TrimSuffix(normalized, "/")
	if trimmed == "" || !filepath.IsLocal(filepath.FromSlash(trimmed)) {
		return New(ErrCodeUnsafeArchiveEntry, "entry %q escapes the extraction root", name)
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
