package cluster

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/h3ow3d/clusterctl/internal/ansible"
	"github.com/h3ow3d/clusterctl/internal/config"
	"github.com/h3ow3d/clusterctl/internal/playbooks"
)

// Recognized service names.
const (
	ServiceDocker     = "docker"
	ServiceKubernetes = "kubernetes"
)

const shutdownModule = "community.general.shutdown"

// ErrUnknownService is returned for a service name clusterctl cannot deploy
// or delete.
var ErrUnknownService = errors.New("unknown service")

// servicePlaybooks lists, per service and operation, the playbooks to run in
// order.
var servicePlaybooks = map[string]map[ServiceOp][]string{
	ServiceKubernetes: {
		Deploy: {playbooks.InstallKubernetes, playbooks.SetupKubernetesCluster},
		Delete: {playbooks.UninstallKubernetes},
	},
	ServiceDocker: {
		Deploy: {playbooks.InstallDocker},
		Delete: {playbooks.UninstallDocker},
	},
}

// Dispatcher runs actions through an ansible Executor.
type Dispatcher struct {
	Exec *ansible.Executor
	// Hosts is the host pattern every action targets; empty means all.
	Hosts string
	// Out receives output produced by clusterctl itself, such as host lists.
	Out io.Writer
	Log *zap.Logger
}

func (d *Dispatcher) log() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}

// Dispatch runs a. Errors from the external tools are returned as
// *ansible.ExitError; configuration errors are returned before anything
// runs.
func (d *Dispatcher) Dispatch(a Action) error {
	// An unknown service is reported ahead of a missing inventory.
	var batch *ansible.Batch
	if s, ok := a.(Service); ok {
		b, err := ServiceBatch(s)
		if err != nil {
			return err
		}
		batch = b
	}

	if NeedsInventory(a) && d.Exec.Inventory == "" {
		return config.ErrNoInventory
	}
	if cmd, ok := Command(a, d.Hosts); ok {
		return d.Exec.RunCommand(cmd)
	}

	switch a := a.(type) {
	case Service:
		d.log().Info("service operation", zap.String("service", a.Name), zap.Stringer("op", a.Op))
		return d.Exec.RunBatch(batch)
	case RunPlaybooks:
		if len(a.Names) == 0 {
			return errors.New("no playbooks given")
		}
		ps, err := playbooks.LoadAll(a.Names...)
		if err != nil {
			return err
		}
		return d.Exec.RunBatch(ansible.NewBatch(ansible.Combined, ps...))
	case CheckPlaybooks:
		names := a.Names
		if len(names) == 0 {
			names = playbooks.Names()
		}
		ps, err := playbooks.LoadAll(names...)
		if err != nil {
			return err
		}
		return d.Exec.SyntaxCheck(ansible.NewBatch(ansible.Sequential, ps...))
	case InventoryList:
		return d.Exec.ListInventory()
	case InventoryHosts:
		hosts, err := d.Exec.InventoryHosts()
		if err != nil {
			return err
		}
		for _, h := range hosts {
			if _, err := fmt.Fprintln(d.Out, h); err != nil {
				return fmt.Errorf("print hosts: %w", err)
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported action %T", a)
	}
}

// Command returns the ad-hoc command for actions that run as one, and false
// for every other action.
func Command(a Action, hosts string) (*ansible.Command, bool) {
	switch a := a.(type) {
	case Ping:
		return ansible.NewCommand(ansible.NamedModule("ping"), false, hosts), true
	case Reboot:
		return ansible.NewCommand(ansible.NamedModule("reboot"), true, hosts), true
	case Shutdown:
		return ansible.NewCommand(ansible.NamedModule(shutdownModule), true, hosts), true
	case SSH:
		return ansible.NewCommand(ansible.NamedModule("ssh"), false, hosts), true
	case Uptime:
		return ansible.NewRunCommand("uptime", false, hosts, ""), true
	case Update:
		return ansible.NewUpdateCommand(hosts), true
	case RunCommand:
		return ansible.NewRunCommand(a.Command, a.Become, hosts, a.Chdir), true
	case CopyFile:
		if a.Direction == FromRemote {
			return ansible.NewFetchCommand(false, hosts, a.Src, a.Dest), true
		}
		return ansible.NewCopyCommand(false, hosts, a.Src, a.Dest), true
	default:
		return nil, false
	}
}

// ServiceBatch returns the sequential playbook batch for a service
// operation, or an error wrapping ErrUnknownService.
func ServiceBatch(s Service) (*ansible.Batch, error) {
	ops, ok := servicePlaybooks[s.Name]
	if !ok {
		return nil, fmt.Errorf("%w %q, can't %s", ErrUnknownService, s.Name, s.Op)
	}
	names, ok := ops[s.Op]
	if !ok {
		return nil, fmt.Errorf("service %q: unsupported operation %s", s.Name, s.Op)
	}
	ps, err := playbooks.LoadAll(names...)
	if err != nil {
		return nil, err
	}
	return ansible.NewBatch(ansible.Sequential, ps...), nil
}

// Services returns the recognized service names.
func Services() []string {
	return []string{ServiceDocker, ServiceKubernetes}
}

// NeedsInventory reports whether a targets remote hosts and therefore needs
// an inventory.
func NeedsInventory(a Action) bool {
	switch a.(type) {
	case CheckPlaybooks:
		return false
	default:
		return true
	}
}
