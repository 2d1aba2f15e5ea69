package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/jsb/pkg/errors"
)

type accessor struct {
	get func(*Config) string
	set func(*Config, string) error
}

func str(field func(*Config) *string) accessor {
	return accessor{
		get: func(c *Config) string { return *field(c) },
		set: func(c *Config, v string) error { *field(c) = v; return nil },
	}
}

func boolean(key string, field func(*Config) *bool) accessor {
	return accessor{
		get: func(c *Config) string { return strconv.FormatBool(*field(c)) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return errors.New(errors.ErrCodeInvalidConfig, "%s: %q is not a boolean", key, v)
			}
			*field(c) = b
			return nil
		},
	}
}

// keyOrder lists settable keys in document order.
var keyOrder = []string{
	"build.command",
	"build.source_dir",
	"build.output_dir",
	"build.resource_dir",
	"build.verbose",
	"java.command",
	"java.main_class",
	"package.command",
	"package.output_dir",
	"package.name",
	"package.staging_dir",
	"deps.cache_dir",
	"deps.repository",
	"deps.retries",
	"deps.probe_cache_ttl",
	"platform.separator",
	"platform.shell",
	"platform.use_shell",
}

var accessors = map[string]accessor{
	"build.command":       str(func(c *Config) *string { return &c.Build.Command }),
	"build.source_dir":    str(func(c *Config) *string { return &c.Build.SourceDir }),
	"build.output_dir":    str(func(c *Config) *string { return &c.Build.OutputDir }),
	"build.resource_dir":  str(func(c *Config) *string { return &c.Build.ResourceDir }),
	"build.verbose":       boolean("build.verbose", func(c *Config) *bool { return &c.Build.Verbose }),
	"java.command":        str(func(c *Config) *string { return &c.Java.Command }),
	"java.main_class":     str(func(c *Config) *string { return &c.Java.MainClass }),
	"package.command":     str(func(c *Config) *string { return &c.Package.Command }),
	"package.output_dir":  str(func(c *Config) *string { return &c.Package.OutputDir }),
	"package.name":        str(func(c *Config) *string { return &c.Package.Name }),
	"package.staging_dir": str(func(c *Config) *string { return &c.Package.StagingDir }),
	"deps.cache_dir":      str(func(c *Config) *string { return &c.Deps.CacheDir }),
	"deps.repository":     str(func(c *Config) *string { return &c.Deps.Repository }),
	"deps.retries": {
		get: func(c *Config) string { return strconv.Itoa(c.Deps.Retries) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return errors.New(errors.ErrCodeInvalidConfig, "deps.retries: %q is not a non-negative integer", v)
			}
			c.Deps.Retries = n
			return nil
		},
	},
	"deps.probe_cache_ttl": {
		get: func(c *Config) string { return c.Deps.ProbeCacheTTL.String() },
		set: func(c *Config, v string) error {
			d, err := time.ParseDuration(v)
			if err != nil || d < 0 {
				return errors.New(errors.ErrCodeInvalidConfig, "deps.probe_cache_ttl: %q is not a duration", v)
			}
			c.Deps.ProbeCacheTTL = Duration{d}
			return nil
		},
	},
	"platform.separator": str(func(c *Config) *string { return &c.Platform.Separator }),
	"platform.shell": {
		get: func(c *Config) string { return strings.Join(c.Platform.Shell, " ") },
		set: func(c *Config, v string) error {
			c.Platform.Shell = strings.Fields(v)
			return nil
		},
	},
	"platform.use_shell": boolean("platform.use_shell", func(c *Config) *bool { return &c.Platform.UseShell }),
}

// Keys returns every key accepted by [Config.Get] and [Config.Set].
func Keys() []string {
	return append([]string(nil), keyOrder...)
}

// Get returns the value of a dotted key such as "java.main_class".
func (c *Config) Get(key string) (string, error) {
	if key == "deps.coordinates" {
		return strings.Join(c.Deps.Coordinates, ","), nil
	}
	a, ok := accessors[key]
	if !ok {
		return "", unknownKey(key)
	}
	return a.get(c), nil
}

// Set assigns a dotted key. Values for boolean, integer and duration keys
// are validated. deps.coordinates is managed through the dependency store
// and cannot be set here.
func (c *Config) Set(key, value string) error {
	if key == "deps.coordinates" {
		return errors.New(errors.ErrCodeInvalidConfig, "deps.coordinates is managed with 'jsb dep add/remove'")
	}
	a, ok := accessors[key]
	if !ok {
		return unknownKey(key)
	}
	if err := a.set(c, value); err != nil {
		return err
	}
	delete(c.shadowed, key)
	return nil
}

func unknownKey(key string) error {
	return errors.New(errors.ErrCodeInvalidConfig, "unknown key %q", key)
}
