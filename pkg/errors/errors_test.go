package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestCodes(t *testing.T) {
	// Codes appear in logs and metric labels; their spelling is stable.
	codes := map[Code]string{
		ErrCodeInvalidInput:       "INVALID_INPUT",
		ErrCodeInvalidCoordinate:  "INVALID_COORDINATE",
		ErrCodeInvalidConfig:      "INVALID_CONFIG",
		ErrCodeInvalidPath:        "INVALID_PATH",
		ErrCodeNotFound:           "NOT_FOUND",
		ErrCodeNoSources:          "NO_SOURCES",
		ErrCodeNetwork:            "NETWORK_ERROR",
		ErrCodeFilesystem:         "FILESYSTEM_ERROR",
		ErrCodeUnsafeArchiveEntry: "UNSAFE_ARCHIVE_ENTRY",
		ErrCodeProcessSpawn:       "PROCESS_SPAWN",
		ErrCodeCompileFailed:      "COMPILE_FAILED",
		ErrCodeInternal:           "INTERNAL_ERROR",
	}
	for code, want := range codes {
		if string(code) != want {
			t.Errorf("code %q, want %q", code, want)
		}
	}
}

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "no cause",
			err:  New(ErrCodeNoSources, "no .java files under %s", "./src"),
			want: "NO_SOURCES: no .java files under ./src",
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodeFilesystem, fs.ErrPermission, "create %s", "lib"),
			want: "FILESYSTEM_ERROR: create lib: permission denied",
		},
		{
			name: "nested",
			err:  Wrap(ErrCodeUnsafeArchiveEntry, New(ErrCodeUnsafeArchiveEntry, "entry %q escapes the extraction root", "../evil"), "lib/evil-1.jar"),
			want: `UNSAFE_ARCHIVE_ENTRY: lib/evil-1.jar: UNSAFE_ARCHIVE_ENTRY: entry "../evil" escapes the extraction root`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	err := Wrap(ErrCodeFilesystem, fs.ErrNotExist, "read %s", "jsb.toml")

	if errors.Unwrap(err) != fs.ErrNotExist {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), fs.ErrNotExist)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("errors.Is(err, fs.ErrNotExist) = false, want true")
	}
}

func TestIs(t *testing.T) {
	spawn := New(ErrCodeProcessSpawn, "start javac: executable file not found")
	compile := Wrap(ErrCodeCompileFailed, spawn, "compilation failed")

	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"outer code", compile, ErrCodeCompileFailed, true},
		{"inner code", compile, ErrCodeProcessSpawn, true},
		{"absent code", compile, ErrCodeNetwork, false},
		{"behind fmt.Errorf", fmt.Errorf("package: %w", compile), ErrCodeProcessSpawn, true},
		{
			name: "coded error behind a plain wrapper",
			err:  Wrap(ErrCodeNetwork, fmt.Errorf("attempt 3: %w", New(ErrCodeNotFound, "gone")), "download"),
			code: ErrCodeNotFound,
			want: true,
		},
		{"plain error", errors.New("boom"), ErrCodeInternal, false},
		{"nil", nil, ErrCodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is(%v, %s) = %v, want %v", tt.err, tt.code, got, tt.want)
			}
		})
	}
}

func TestGetCodeIsOutermost(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"single", New(ErrCodeInvalidPath, "x"), ErrCodeInvalidPath},
		{"wrapped", Wrap(ErrCodeInvalidConfig, New(ErrCodeInvalidInput, "bad url"), "deps.repository"), ErrCodeInvalidConfig},
		{"behind fmt.Errorf", fmt.Errorf("load: %w", New(ErrCodeInvalidConfig, "x")), ErrCodeInvalidConfig},
		{"plain", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"message only", New(ErrCodeNoSources, "no sources in ./src"), "no sources in ./src"},
		{
			name: "code prefixes dropped along the chain",
			err:  Wrap(ErrCodeInvalidConfig, New(ErrCodeInvalidInput, "URL must use http or https scheme"), "deps.repository"),
			want: "deps.repository: URL must use http or https scheme",
		},
		{
			name: "plain cause",
			err:  Wrap(ErrCodeNetwork, errors.New("connection refused"), "download org.x:y:1.0"),
			want: "download org.x:y:1.0: connection refused",
		},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
