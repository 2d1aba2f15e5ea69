package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/jsb/pkg/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "javac", cfg.Build.Command)
	assert.Equal(t, "./src", cfg.Build.SourceDir)
	assert.Equal(t, "./classes", cfg.Build.OutputDir)
	assert.Equal(t, "./res", cfg.Build.ResourceDir)
	assert.False(t, cfg.Build.Verbose)
	assert.Equal(t, "java", cfg.Java.Command)
	assert.Equal(t, "Main", cfg.Java.MainClass)
	assert.Equal(t, "jar", cfg.Package.Command)
	assert.Equal(t, "./dist", cfg.Package.OutputDir)
	assert.Equal(t, "MainPackage", cfg.Package.Name)
	assert.Equal(t, "./lib", cfg.Deps.CacheDir)
	assert.Equal(t, "https://repo1.maven.org/maven2/", cfg.Deps.Repository)
	assert.Empty(t, cfg.Deps.Coordinates)
	assert.Equal(t, 24*time.Hour, cfg.Deps.ProbeCacheTTL.Duration)
	assert.NoError(t, cfg.Validate())
}

func TestPlatformFor(t *testing.T) {
	win := platformFor("windows")
	assert.Equal(t, ";", win.Separator)
	assert.Equal(t, []string{"cmd", "/c"}, win.Shell)

	linux := platformFor("linux")
	assert.Equal(t, ":", linux.Separator)
	assert.Equal(t, []string{"sh", "-c"}, linux.Shell)

	assert.Nil(t, linux.ShellPrefix())
	linux.UseShell = true
	assert.Equal(t, []string{"sh", "-c"}, linux.ShellPrefix())
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadOrDefault(filepath.Join(dir, FileName))
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Dir)
	assert.Equal(t, filepath.Join(dir, "src"), cfg.SourceDir())
	assert.Equal(t, filepath.Join(dir, "lib", "classes"), cfg.StagingDir())
	assert.Equal(t, filepath.Join(dir, "dist", "MainPackage.jar"), cfg.ArchivePath())
}

func TestLoadOrDefaultOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	writeFile(t, path, `
[java]
main_class = "com.example.App"

[deps]
coordinates = ["org.slf4j:slf4j-api:2.0.9"]
retries = 2
probe_cache_ttl = "1h"

[package]
staging_dir = "/tmp/stage"
`)

	cfg, err := LoadOrDefault(path)
	require.NoError(t, err)

	assert.Equal(t, "com.example.App", cfg.Java.MainClass)
	assert.Equal(t, "java", cfg.Java.Command, "unset keys keep defaults")
	assert.Equal(t, []string{"org.slf4j:slf4j-api:2.0.9"}, cfg.Deps.Coordinates)
	assert.Equal(t, 2, cfg.Deps.Retries)
	assert.Equal(t, time.Hour, cfg.Deps.ProbeCacheTTL.Duration)
	assert.Equal(t, filepath.Clean("/tmp/stage"), cfg.StagingDir())
}

func TestLoadOrDefaultInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "[build\ncommand = "},
		{"unknown key", "[build]\ncompiler = \"ecj\"\n"},
		{"wrong type", "[deps]\nretries = \"two\"\n"},
		{"bad repository", "[deps]\nrepository = \"ftp://example.com\"\n"},
		{"empty command", "[build]\ncommand = \"\"\n"},
		{"bad duration", "[deps]\nprobe_cache_ttl = \"soon\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			writeFile(t, path, tt.content)

			_, err := LoadOrDefault(path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "got %v", err)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	cfg := Default()
	cfg.Dir = dir
	cfg.Java.MainClass = "app.Main"
	cfg.Deps.Coordinates = []string{"a:b:1", "c:d:2"}
	cfg.Platform.UseShell = true
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadOrDefault(path)
	require.NoError(t, err)
	assert.Equal(t, "app.Main", loaded.Java.MainClass)
	assert.Equal(t, []string{"a:b:1", "c:d:2"}, loaded.Deps.Coordinates)
	assert.True(t, loaded.Platform.UseShell)
	assert.Equal(t, cfg.Deps.ProbeCacheTTL, loaded.Deps.ProbeCacheTTL)

	entries, _ := os.ReadDir(dir)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestSaveUnwritableDir(t *testing.T) {
	err := Default().Save(filepath.Join(t.TempDir(), "missing", FileName))
	assert.True(t, errors.Is(err, errors.ErrCodeFilesystem))
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	writeFile(t, path, "[deps]\nrepository = \"https://file.example.com/m2/\"\n")
	writeFile(t, filepath.Join(dir, ".env"), "JSB_MAIN_CLASS=dotenv.Main\nJSB_CACHE_DIR=./dotenv-lib\n")

	t.Setenv(EnvRepository, "https://env.example.com/m2/")
	t.Setenv(EnvCacheDir, "./env-lib")

	cfg, err := LoadOrDefault(path)
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com/m2/", cfg.Deps.Repository)
	assert.Equal(t, "dotenv.Main", cfg.Java.MainClass)
	assert.Equal(t, "./env-lib", cfg.Deps.CacheDir, "process env wins over .env")
	assert.True(t, cfg.Overridden("deps.repository"))
	assert.False(t, cfg.Overridden("build.command"))

	// Overrides must not leak into the file.
	cfg.Deps.Coordinates = []string{"a:b:1"}
	require.NoError(t, cfg.Save(path))

	t.Setenv(EnvRepository, "")
	t.Setenv(EnvCacheDir, "")
	require.NoError(t, os.Remove(filepath.Join(dir, ".env")))

	reloaded, err := LoadOrDefault(path)
	require.NoError(t, err)
	assert.Equal(t, "https://file.example.com/m2/", reloaded.Deps.Repository)
	assert.Equal(t, "Main", reloaded.Java.MainClass)
	assert.Equal(t, "./lib", reloaded.Deps.CacheDir)
	assert.Equal(t, []string{"a:b:1"}, reloaded.Deps.Coordinates)
}

func TestSetReplacesEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	writeFile(t, path, "[deps]\nrepository = \"https://file.example.com/m2/\"\n")
	t.Setenv(EnvRepository, "https://env.example.com/m2/")

	cfg, err := LoadOrDefault(path)
	require.NoError(t, err)
	require.True(t, cfg.Overridden("deps.repository"))

	require.NoError(t, cfg.Set("deps.repository", "https://edited.example.com/m2/"))
	assert.False(t, cfg.Overridden("deps.repository"))
	require.NoError(t, cfg.Save(path))

	t.Setenv(EnvRepository, "")
	reloaded, err := LoadOrDefault(path)
	require.NoError(t, err)
	assert.Equal(t, "https://edited.example.com/m2/", reloaded.Deps.Repository)
}

func TestEnvOverrideInvalid(t *testing.T) {
	t.Setenv(EnvRepository, "not a url")
	_, err := LoadOrDefault(filepath.Join(t.TempDir(), FileName))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}
