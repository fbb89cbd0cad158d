package config_test

import (
	"path/filepath"
	"testing"

	"github.com/h3ow3d/clusterctl/internal/config"
)

func TestDefaultDirs_Structure(t *testing.T) {
	dirs := config.DefaultDirs()
	if dirs.Config == "" {
		t.Error("Config must not be empty")
	}
}

func TestDirs_ConfigFile(t *testing.T) {
	dirs := config.Dirs{Config: "/tmp/cfg/clusterctl"}
	if got, want := dirs.ConfigFile(), "/tmp/cfg/clusterctl/config.yaml"; got != want {
		t.Errorf("ConfigFile = %q, want %q", got, want)
	}
}

func TestDirs_XDGEnvOverride(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))

	dirs := config.DefaultDirs()
	if want := filepath.Join(tmp, "config", "clusterctl"); dirs.Config != want {
		t.Errorf("Config = %q, want %q", dirs.Config, want)
	}
}
