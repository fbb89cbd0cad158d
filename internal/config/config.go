// Package config resolves the settings every clusterctl operation runs with.
//
// Settings are layered, lowest precedence first: built-in defaults, the
// config file, the environment (optionally seeded from a .env file) and
// command-line flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by ApplyEnv.
const (
	EnvInventory = "CLUSTERCTL_INVENTORY"
	EnvHosts     = "CLUSTERCTL_HOSTS"
	EnvTmpDir    = "CLUSTERCTL_TMPDIR"
)

// ErrNoInventory is returned when an operation needs an inventory and none
// was configured.
var ErrNoInventory = errors.New("no inventory configured: pass --inventory, set " + EnvInventory + " or add inventory to the config file")

// Settings are the values shared by every operation of one invocation.
type Settings struct {
	// Inventory is the ansible inventory source.
	Inventory string `yaml:"inventory"`
	// Hosts is the host pattern; empty targets all managed hosts.
	Hosts string `yaml:"hosts"`
	// Verbose is the -v occurrence count.
	Verbose int `yaml:"verbose"`
	// TmpDir receives materialized playbooks; empty means the system temp dir.
	TmpDir string `yaml:"tmp_dir"`
	// DryRun prints invocations instead of running them.
	DryRun bool `yaml:"-"`
}

// RequireInventory returns ErrNoInventory when no inventory is set.
func (s Settings) RequireInventory() error {
	if strings.TrimSpace(s.Inventory) == "" {
		return ErrNoInventory
	}
	return nil
}

// LoadFile overlays the config file at path onto s. A missing file is not an
// error; unknown keys are.
func LoadFile(path string, s *Settings) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	if s.Verbose < 0 {
		return fmt.Errorf("config %s: verbose must not be negative", path)
	}
	return nil
}

// LoadDotEnv exports the variables of envFile into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadDotEnv(envFile string) error {
	if _, err := os.Stat(envFile); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("load %s: %w", envFile, err)
	}
	return nil
}

// ApplyEnv overlays the CLUSTERCTL_* environment variables onto s.
func ApplyEnv(s *Settings) {
	if v := os.Getenv(EnvInventory); v != "" {
		s.Inventory = v
	}
	if v := os.Getenv(EnvHosts); v != "" {
		s.Hosts = v
	}
	if v := os.Getenv(EnvTmpDir); v != "" {
		s.TmpDir = v
	}
}
