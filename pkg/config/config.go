// Package config loads and stores the jsb project file.
//
// A project is configured by a single TOML document, jsb.toml, in the project
// root. Every key has a default, so a project without the file still builds:
//
//	[build]
//	command = "javac"
//	source_dir = "./src"
//	output_dir = "./classes"
//	resource_dir = "./res"
//	verbose = false
//
//	[java]
//	command = "java"
//	main_class = "Main"
//
//	[package]
//	command = "jar"
//	output_dir = "./dist"
//	name = "MainPackage"
//	staging_dir = ""            # defaults to {deps.cache_dir}/classes
//
//	[deps]
//	cache_dir = "./lib"
//	repository = "https://repo1.maven.org/maven2/"
//	coordinates = []
//	retries = 0
//	probe_cache_ttl = "24h"
//
//	[platform]
//	separator = ":"             # ";" on Windows
//	shell = ["sh", "-c"]        # ["cmd", "/c"] on Windows
//	use_shell = false
//
// Relative paths are resolved against the directory holding the file.
//
// # Environment
//
// After the file is read, a .env file next to it is consulted with godotenv
// and the JSB_REPOSITORY, JSB_MAIN_CLASS and JSB_CACHE_DIR variables override
// the matching keys. Variables already set in the process win over .env.
// Overridden values are never written back by [Config.Save].
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/jsb/pkg/errors"
)

// FileName is the project file looked up in the project root.
const FileName = "jsb.toml"

// Config is the whole project configuration.
type Config struct {
	Build    BuildConfig    `toml:"build"`
	Java     JavaConfig     `toml:"java"`
	Package  PackageConfig  `toml:"package"`
	Deps     DepsConfig     `toml:"deps"`
	Platform PlatformConfig `toml:"platform"`

	// Dir is the project root; relative paths resolve against it.
	Dir string `toml:"-"`

	// shadowed maps keys replaced by environment overrides to the value
	// they had before, so Save persists the file's own value.
	shadowed map[string]string
}

// BuildConfig configures compilation.
type BuildConfig struct {
	Command     string `toml:"command"`
	SourceDir   string `toml:"source_dir"`
	OutputDir   string `toml:"output_dir"`
	ResourceDir string `toml:"resource_dir"`
	Verbose     bool   `toml:"verbose"`
}

// JavaConfig configures the run step.
type JavaConfig struct {
	Command   string `toml:"command"`
	MainClass string `toml:"main_class"`
}

// PackageConfig configures archive assembly.
type PackageConfig struct {
	Command    string `toml:"command"`
	OutputDir  string `toml:"output_dir"`
	Name       string `toml:"name"`
	StagingDir string `toml:"staging_dir"`
}

// DepsConfig configures dependency resolution.
type DepsConfig struct {
	CacheDir      string   `toml:"cache_dir"`
	Repository    string   `toml:"repository"`
	Coordinates   []string `toml:"coordinates"`
	Retries       int      `toml:"retries"`
	ProbeCacheTTL Duration `toml:"probe_cache_ttl"`
}

// Duration is a time.Duration that reads and writes as "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration for the current platform.
func Default() *Config {
	return &Config{
		Build: BuildConfig{
			Command:     "javac",
			SourceDir:   "./src",
			OutputDir:   "./classes",
			ResourceDir: "./res",
		},
		Java: JavaConfig{
			Command:   "java",
			MainClass: "Main",
		},
		Package: PackageConfig{
			Command:   "jar",
			OutputDir: "./dist",
			Name:      "MainPackage",
		},
		Deps: DepsConfig{
			CacheDir:      "./lib",
			Repository:    "https://repo1.maven.org/maven2/",
			Coordinates:   []string{},
			ProbeCacheTTL: Duration{24 * time.Hour},
		},
		Platform: DetectPlatform(),
		Dir:      ".",
	}
}

// LoadOrDefault reads the project file at path over the defaults.
//
// A missing file is not an error. Malformed TOML, unknown keys and values
// that fail [Config.Validate] yield INVALID_CONFIG.
func LoadOrDefault(path string) (*Config, error) {
	cfg := Default()
	cfg.Dir = filepath.Dir(path)

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, errors.Wrap(errors.ErrCodeFilesystem, err, "read %s", path)
	default:
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			sort.Strings(keys)
			return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
	}
	if cfg.Deps.Coordinates == nil {
		cfg.Deps.Coordinates = []string{}
	}

	env, err := readDotEnv(filepath.Join(cfg.Dir, ".env"))
	if err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(env); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the whole configuration to path.
// The document is written to a temporary file in the same directory and
// renamed over path, so readers see either the old or the new file.
func (c *Config) Save(path string) error {
	out, err := c.persisted()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsb-*.toml")
	if err != nil {
		return errors.Wrap(errors.ErrCodeFilesystem, err, "write %s", path)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeFilesystem, err, "write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeFilesystem, err, "write %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeFilesystem, err, "write %s", path)
	}
	return nil
}

// persisted returns a copy with environment overrides undone. Keys assigned
// with [Config.Set] after loading are no longer shadowed and keep the new value.
func (c *Config) persisted() (*Config, error) {
	out := *c
	out.Deps.Coordinates = append([]string{}, c.Deps.Coordinates...)
	out.Platform.Shell = append([]string{}, c.Platform.Shell...)
	out.shadowed = nil
	for key, orig := range c.shadowed {
		a, ok := accessors[key]
		if !ok {
			return nil, unknownKey(key)
		}
		if err := a.set(&out, orig); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "restore %s", key)
		}
	}
	return &out, nil
}

// Validate checks that required keys are set and values are usable.
func (c *Config) Validate() error {
	required := []struct{ key, value string }{
		{"build.command", c.Build.Command},
		{"build.source_dir", c.Build.SourceDir},
		{"build.output_dir", c.Build.OutputDir},
		{"java.command", c.Java.Command},
		{"java.main_class", c.Java.MainClass},
		{"package.command", c.Package.Command},
		{"package.output_dir", c.Package.OutputDir},
		{"package.name", c.Package.Name},
		{"deps.cache_dir", c.Deps.CacheDir},
		{"deps.repository", c.Deps.Repository},
		{"platform.separator", c.Platform.Separator},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must not be empty", r.key)
		}
	}
	if err := errors.ValidateURL(c.Deps.Repository); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "deps.repository")
	}
	if c.Deps.Retries < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "deps.retries must not be negative")
	}
	if c.Deps.ProbeCacheTTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "deps.probe_cache_ttl must not be negative")
	}
	if c.Platform.UseShell && len(c.Platform.Shell) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "platform.shell must be set when platform.use_shell is true")
	}
	return nil
}

// Path resolves p against the project root. Absolute paths are returned
// cleaned but otherwise unchanged.
func (c *Config) Path(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	dir := c.Dir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, p)
}

// SourceDir is the resolved build.source_dir.
func (c *Config) SourceDir() string { return c.Path(c.Build.SourceDir) }

// OutputDir is the resolved build.output_dir.
func (c *Config) OutputDir() string { return c.Path(c.Build.OutputDir) }

// ResourceDir is the resolved build.resource_dir.
func (c *Config) ResourceDir() string { return c.Path(c.Build.ResourceDir) }

// CacheDir is the resolved deps.cache_dir.
func (c *Config) CacheDir() string { return c.Path(c.Deps.CacheDir) }

// StagingDir is the resolved package.staging_dir, or {deps.cache_dir}/classes
// when unset.
func (c *Config) StagingDir() string {
	if c.Package.StagingDir == "" {
		return filepath.Join(c.CacheDir(), "classes")
	}
	return c.Path(c.Package.StagingDir)
}

// ArchivePath is {package.output_dir}/{package.name}.jar, resolved.
func (c *Config) ArchivePath() string {
	return filepath.Join(c.Path(c.Package.OutputDir), c.Package.Name+".jar")
}
