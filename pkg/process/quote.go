package process

import (
	"path/filepath"
	"runtime"
	"strings"
)

// Quote quotes arg for the platform shell: POSIX single quotes, or double
// quotes on Windows. Arguments made only of safe characters are returned
// unchanged.
func Quote(arg string) string {
	if runtime.GOOS == "windows" {
		return quoteWindows(arg)
	}
	return quotePOSIX(arg)
}

// Join quotes each argument and joins them with spaces.
func Join(argv []string) string {
	return joinWith(argv, Quote)
}

func joinFor(shell []string, argv []string) string {
	if len(shell) > 0 && isCmd(shell[0]) {
		return joinWith(argv, quoteWindows)
	}
	return joinWith(argv, quotePOSIX)
}

func joinWith(argv []string, quote func(string) string) string {
	parts := make([]string, len(argv))
	for i, a := range argv {
		parts[i] = quote(a)
	}
	return strings.Join(parts, " ")
}

func isCmd(name string) bool {
	base := strings.ToLower(filepath.Base(strings.ReplaceAll(name, "\\", "/")))
	return base == "cmd" || base == "cmd.exe"
}

func safe(arg string, extra string) bool {
	if arg == "" {
		return false
	}
	for _, r := range arg {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("-_./=:,+@%"+extra, r):
		default:
			return false
		}
	}
	return true
}

func quotePOSIX(arg string) string {
	if safe(arg, "") {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}

func quoteWindows(arg string) string {
	if safe(arg, `\*;`) {
		return arg
	}
	return `"` + strings.ReplaceAll(arg, `"`, `\"`) + `"`
}
