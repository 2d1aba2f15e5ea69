package config

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/matzehuels/jsb/pkg/errors"
)

// Environment variables that override project keys.
const (
	EnvRepository = "JSB_REPOSITORY"
	EnvMainClass  = "JSB_MAIN_CLASS"
	EnvCacheDir   = "JSB_CACHE_DIR"
)

var envKeys = []struct{ env, key string }{
	{EnvRepository, "deps.repository"},
	{EnvMainClass, "java.main_class"},
	{EnvCacheDir, "deps.cache_dir"},
}

// readDotEnv parses a .env file. A missing file yields an empty map.
func readDotEnv(path string) (map[string]string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	env, err := godotenv.Read(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	return env, nil
}

// applyEnv overrides keys from the process environment, falling back to the
// values read from .env.
func (c *Config) applyEnv(dotenv map[string]string) error {
	for _, e := range envKeys {
		v, ok := os.LookupEnv(e.env)
		if !ok || v == "" {
			v, ok = dotenv[e.env]
		}
		if !ok || v == "" {
			continue
		}

		orig, _ := c.Get(e.key)
		if err := c.Set(e.key, v); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", e.env)
		}
		if c.shadowed == nil {
			c.shadowed = make(map[string]string)
		}
		c.shadowed[e.key] = orig
	}
	return nil
}

// Overridden reports whether key currently holds a value taken from the
// environment.
func (c *Config) Overridden(key string) bool {
	_, ok := c.shadowed[key]
	return ok
}
