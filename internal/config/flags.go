package config

import (
	"github.com/spf13/pflag"
)

// Flag names.
const (
	FlagInventory = "inventory"
	FlagHosts     = "hosts"
	FlagVerbose   = "verbose"
	FlagDryRun    = "dry-run"
	FlagConfig    = "config"
	FlagEnvFile   = "env-file"
)

// Flags holds the values of the global command-line flags.
type Flags struct {
	fs         *pflag.FlagSet
	values     Settings
	configFile string
	envFile    string
}

// BindFlags registers the global flags on fs.
func BindFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVarP(&f.values.Inventory, FlagInventory, "i", "", "ansible inventory file or host list")
	fs.StringVarP(&f.values.Hosts, FlagHosts, "H", "", "host pattern to target (default all)")
	fs.CountVarP(&f.values.Verbose, FlagVerbose, "v", "increase verbosity (repeat up to -vvvv)")
	fs.BoolVar(&f.values.DryRun, FlagDryRun, false, "print the ansible commands instead of running them")
	fs.StringVar(&f.configFile, FlagConfig, "", "config file (default $XDG_CONFIG_HOME/clusterctl/config.yaml)")
	fs.StringVar(&f.envFile, FlagEnvFile, ".env", "dotenv file to read CLUSTERCTL_* variables from")
	return f
}

// Resolve layers defaults, the config file, the environment and the flags
// that were set explicitly, in that order.
func (f *Flags) Resolve() (Settings, error) {
	var s Settings

	path := f.configFile
	if path == "" {
		path = DefaultDirs().ConfigFile()
	}
	if err := LoadFile(path, &s); err != nil {
		return Settings{}, err
	}

	if err := LoadDotEnv(f.envFile); err != nil {
		return Settings{}, err
	}
	ApplyEnv(&s)

	if f.fs.Changed(FlagInventory) {
		s.Inventory = f.values.Inventory
	}
	if f.fs.Changed(FlagHosts) {
		s.Hosts = f.values.Hosts
	}
	if f.fs.Changed(FlagVerbose) {
		s.Verbose = f.values.Verbose
	}
	s.DryRun = f.values.DryRun
	return s, nil
}
