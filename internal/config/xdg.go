package config

import (
	"os"
	"path/filepath"
)

const appName = "clusterctl"

// Dirs holds the resolved XDG-compliant directory paths for clusterctl.
type Dirs struct {
	// Config is ~/.config/clusterctl  (XDG_CONFIG_HOME)
	Config string
}

// xdgBase returns the XDG base directory, falling back to the given default
// when the environment variable is unset or empty.
func xdgBase(envVar, fallback string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return fallback
	}
	return filepath.Join(home, fallback)
}

// DefaultDirs returns the resolved directory set for clusterctl using the
// current environment and home directory.
func DefaultDirs() Dirs {
	return Dirs{
		Config: filepath.Join(xdgBase("XDG_CONFIG_HOME", ".config"), appName),
	}
}

// ConfigFile returns the path to the clusterctl config file.
func (d Dirs) ConfigFile() string {
	return filepath.Join(d.Config, "config.yaml")
}
