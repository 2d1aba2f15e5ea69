package config

import "runtime"

// PlatformConfig holds values that differ between operating systems.
type PlatformConfig struct {
	// Separator joins search-path entries (":" or ";").
	Separator string `toml:"separator"`

	// Shell is the command prefix used when UseShell is set,
	// e.g. ["sh", "-c"].
	Shell []string `toml:"shell"`

	// UseShell routes external commands through Shell instead of
	// executing them directly.
	UseShell bool `toml:"use_shell"`
}

// DetectPlatform returns platform defaults for the running OS.
func DetectPlatform() PlatformConfig {
	return platformFor(runtime.GOOS)
}

func platformFor(goos string) PlatformConfig {
	if goos == "windows" {
		return PlatformConfig{Separator: ";", Shell: []string{"cmd", "/c"}}
	}
	return PlatformConfig{Separator: ":", Shell: []string{"sh", "-c"}}
}

// ShellPrefix returns the shell prefix when UseShell is set, nil otherwise.
func (p PlatformConfig) ShellPrefix() []string {
	if !p.UseShell {
		return nil
	}
	return p.Shell
}
