package ansible

import (
	"fmt"
)

const (
	adhocBin      = "ansible"
	defaultTarget = "all"
)

// Privilege escalation flags: prompt for the become password, then become.
var becomeFlags = []string{"-K", "-b"}

// Module selects what an ad-hoc command runs on the remote hosts.
type Module interface {
	module() (name, freeForm string)
}

// NamedModule runs an ansible module by name, e.g. "ping" or "copy".
type NamedModule string

func (m NamedModule) module() (string, string) { return string(m), "" }

// RawCommand runs a command line through the "command" module.
type RawCommand string

func (c RawCommand) module() (string, string) { return "command", string(c) }

// Command is a single ad-hoc ansible invocation.
type Command struct {
	Module Module
	Become bool
	// Hosts is the host pattern; empty targets every managed host.
	Hosts  string
	Params Params
}

func NewCommand(module Module, become bool, hosts string) *Command {
	return &Command{Module: module, Become: become, Hosts: hosts}
}

// NewCopyCommand copies a local file to the remote hosts.
func NewCopyCommand(become bool, hosts, src, dest string) *Command {
	return NewCommand(NamedModule("copy"), become, hosts).
		WithParam("src", src).
		WithParam("dest", dest)
}

// NewFetchCommand fetches a file from the remote hosts.
func NewFetchCommand(become bool, hosts, src, dest string) *Command {
	return NewCommand(NamedModule("fetch"), become, hosts).
		WithParam("src", src).
		WithParam("dest", dest)
}

// NewRunCommand runs a command line on the remote hosts, optionally from
// chdir.
func NewRunCommand(cmdline string, become bool, hosts, chdir string) *Command {
	c := NewCommand(RawCommand(cmdline), become, hosts)
	if chdir != "" {
		c = c.WithParam("chdir", chdir)
	}
	return c
}

// NewUpdateCommand upgrades every package on the remote hosts.
func NewUpdateCommand(hosts string) *Command {
	return NewCommand(NamedModule("apt"), true, hosts).
		WithParam("update_cache", "yes").
		WithParam("autoremove", "yes").
		WithParam("force_apt_get", "yes").
		WithParam("upgrade", "yes")
}

func (c *Command) WithParam(name, value string) *Command {
	c.Params = c.Params.Set(name, value)
	return c
}

// Target returns the host pattern the command runs against.
func (c *Command) Target() string {
	if c.Hosts == "" {
		return defaultTarget
	}
	return c.Hosts
}

// Args returns the full ansible argument vector. The order is fixed:
// verbosity, inventory, privilege flags, module, module arguments, target.
func (c *Command) Args(inventory string, verbosity int) []string {
	var args []string
	if v, ok := VerbosityFlag(verbosity); ok {
		args = append(args, v)
	}
	if inventory != "" {
		args = append(args, "--inventory", inventory)
	}
	if c.Become {
		args = append(args, becomeFlags...)
	}

	name, freeForm := "", ""
	if c.Module != nil {
		name, freeForm = c.Module.module()
	}
	if name != "" {
		args = append(args, "-m", name)
	}
	args = append(args, encodeArgs(freeForm, c.Params)...)

	return append(args, c.Target())
}

func (c *Command) String() string {
	name, freeForm := "", ""
	if c.Module != nil {
		name, freeForm = c.Module.module()
	}
	if freeForm != "" {
		return fmt.Sprintf("%s %q", name, freeForm)
	}
	return name
}
