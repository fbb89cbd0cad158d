// clusterctl – run fleet-wide operations on a cluster through ansible
//
// Usage:
//
//	clusterctl -i hosts.yaml ping                 – check every host answers
//	clusterctl -i hosts.yaml run -- df -h         – run a command everywhere
//	clusterctl -i hosts.yaml service deploy k8s   – deploy a service
//	clusterctl -i hosts.yaml inventory list       – show the inventory
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/h3ow3d/clusterctl/internal/ansible"
	"github.com/h3ow3d/clusterctl/internal/cluster"
	"github.com/h3ow3d/clusterctl/internal/config"
	"github.com/h3ow3d/clusterctl/internal/doctor"
	"github.com/h3ow3d/clusterctl/internal/log"
	"github.com/h3ow3d/clusterctl/internal/playbooks"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// app carries the resolved settings from the root command to subcommands.
type app struct {
	out      io.Writer
	flags    *config.Flags
	settings config.Settings
	runID    string
	log      *zap.Logger
}

func main() {
	a := &app{out: os.Stdout}
	err := newRootCmd(a).Execute()
	if a.log != nil {
		_ = a.log.Sync()
	}
	if err != nil {
		log.Error(err.Error())
		os.Exit(exitCode(err))
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "clusterctl",
		Short: "Manage a cluster of machines",
		Long: `clusterctl – run fleet-wide operations on a cluster of machines.

Every operation is carried out by ansible: single actions become ad-hoc
ansible commands, service lifecycle operations run embedded playbooks with
ansible-playbook.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	a.flags = config.BindFlags(root.PersistentFlags())
	root.SetOut(a.out)

	root.AddCommand(
		copyCmd(a), fetchCmd(a), inventoryCmd(a), pingCmd(a), rebootCmd(a),
		runCmd(a), serviceCmd(a), shutdownCmd(a), sshCmd(a), updateCmd(a),
		uptimeCmd(a), playbookCmd(a), doctorCmd(a),
	)
	return root
}

// exitCode mirrors the exit status of a failed ansible tool; any other
// failure exits 1.
func exitCode(err error) int {
	var exitErr *ansible.ExitError
	if errors.As(err, &exitErr) && exitErr.Code > 0 {
		return exitErr.Code
	}
	return 1
}

func (a *app) setup(_ *cobra.Command, _ []string) error {
	s, err := a.flags.Resolve()
	if err != nil {
		return err
	}
	a.settings = s
	a.runID = uuid.NewString()
	a.log = log.New(s.Verbose, a.runID, os.Stderr)
	a.log.Debug("settings resolved",
		zap.String("inventory", s.Inventory),
		zap.String("hosts", s.Hosts),
		zap.Bool("dry_run", s.DryRun))
	return nil
}

func (a *app) dispatcher() *cluster.Dispatcher {
	var runner ansible.Runner = ansible.NewExecRunner()
	if a.settings.DryRun {
		runner = &ansible.DryRunner{Out: a.out}
	}
	return &cluster.Dispatcher{
		Exec: &ansible.Executor{
			Runner:     runner,
			Log:        a.log,
			Inventory:  a.settings.Inventory,
			Verbosity:  a.settings.Verbose,
			TempDir:    a.settings.TmpDir,
			FilePrefix: "clusterctl-" + a.runID[:8] + "-",
		},
		Hosts: a.settings.Hosts,
		Out:   a.out,
		Log:   a.log,
	}
}

// dispatch returns a RunE that runs a fixed action.
func (a *app) dispatch(act cluster.Action) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, _ []string) error {
		return a.dispatcher().Dispatch(act)
	}
}

// ── simple actions ────────────────────────────────────────────────────────────

func pingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that every host is reachable",
		Args:  cobra.NoArgs,
		RunE:  a.dispatch(cluster.Ping{}),
	}
}

func rebootCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reboot",
		Short: "Reboot the hosts",
		Long:  `Reboots the hosts and waits for them to come back. Asks for the become password.`,
		Args:  cobra.NoArgs,
		RunE:  a.dispatch(cluster.Reboot{}),
	}
}

func shutdownCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shutdown",
		Short: "Power off the hosts",
		Long:  `Shuts the hosts down with community.general.shutdown. Asks for the become password.`,
		Args:  cobra.NoArgs,
		RunE:  a.dispatch(cluster.Shutdown{}),
	}
}

func sshCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ssh",
		Short: "Run the ssh module against the hosts",
		Args:  cobra.NoArgs,
		RunE:  a.dispatch(cluster.SSH{}),
	}
}

func updateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Upgrade every package on the hosts",
		Long: `Refreshes the apt cache, upgrades all packages and removes the ones no
longer needed. Asks for the become password.`,
		Args: cobra.NoArgs,
		RunE: a.dispatch(cluster.Update{}),
	}
}

func uptimeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "uptime",
		Short: "Show how long the hosts have been up",
		Args:  cobra.NoArgs,
		RunE:  a.dispatch(cluster.Uptime{}),
	}
}

// ── run ───────────────────────────────────────────────────────────────────────

func runCmd(a *app) *cobra.Command {
	var (
		become bool
		chdir  string
	)
	cmd := &cobra.Command{
		Use:   "run [flags] -- <command> [args...]",
		Short: "Run a command on the hosts",
		Long: `Runs a command line on every host through the command module. The command
is not passed through a shell, so pipes and redirections are not available.
Each argument reaches the host as one word, spaces included.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.dispatcher().Dispatch(cluster.RunCommand{
				Command: shellquote.Join(args...),
				Become:  become,
				Chdir:   chdir,
			})
		},
	}
	cmd.Flags().BoolVarP(&become, "become", "b", false, "run the command with privilege escalation")
	cmd.Flags().StringVarP(&chdir, "chdir", "c", "", "remote directory to run the command from")
	return cmd
}

// ── copy / fetch ──────────────────────────────────────────────────────────────

func copyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "copy <src> <dest>",
		Short: "Copy a local file to the hosts",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.dispatcher().Dispatch(cluster.CopyFile{Src: args[0], Dest: args[1], Direction: cluster.ToRemote})
		},
	}
}

func fetchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <src> <dest>",
		Short: "Fetch a file from the hosts",
		Long: `Fetches <src> from every host into <dest> on this machine. Each host's copy
lands in its own <dest>/<host>/ subtree.`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.dispatcher().Dispatch(cluster.CopyFile{Src: args[0], Dest: args[1], Direction: cluster.FromRemote})
		},
	}
}

// ── service ───────────────────────────────────────────────────────────────────

func serviceCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "Deploy or delete services on the cluster",
	}
	cmd.AddCommand(serviceOpCmd(a, cluster.Deploy), serviceOpCmd(a, cluster.Delete))
	return cmd
}

func serviceOpCmd(a *app, op cluster.ServiceOp) *cobra.Command {
	return &cobra.Command{
		Use:       op.String() + " <service>",
		Short:     fmt.Sprintf("Run the %s playbooks of a service (%s)", op, strings.Join(cluster.Services(), ", ")),
		Args:      cobra.ExactArgs(1),
		ValidArgs: cluster.Services(),
		RunE: func(_ *cobra.Command, args []string) error {
			log.Info(fmt.Sprintf("Service %s: %s", args[0], op))
			if err := a.dispatcher().Dispatch(cluster.Service{Name: args[0], Op: op}); err != nil {
				return err
			}
			log.Ok(fmt.Sprintf("Service %s: %s done", args[0], op))
			return nil
		},
	}
}

// ── inventory ─────────────────────────────────────────────────────────────────

func inventoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Inspect the inventory",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all hosts and groups with their variables",
			Args:  cobra.NoArgs,
			RunE:  a.dispatch(cluster.InventoryList{}),
		},
		&cobra.Command{
			Use:   "hosts",
			Short: "Print the name of every host",
			Args:  cobra.NoArgs,
			RunE:  a.dispatch(cluster.InventoryHosts{}),
		},
	)
	return cmd
}

// ── playbook ──────────────────────────────────────────────────────────────────

func playbookCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "playbook",
		Short: "Work with the embedded playbooks",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the embedded playbooks",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				for _, n := range playbooks.Names() {
					if _, err := fmt.Fprintln(a.out, n); err != nil {
						return fmt.Errorf("print playbooks: %w", err)
					}
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "show <name>",
			Short: "Print an embedded playbook",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				data, err := playbooks.Content(args[0])
				if err != nil {
					return err
				}
				_, err = a.out.Write(data)
				return err
			},
		},
		&cobra.Command{
			Use:   "run <name>...",
			Short: "Run embedded playbooks in a single ansible-playbook call",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				return a.dispatcher().Dispatch(cluster.RunPlaybooks{Names: args})
			},
		},
		&cobra.Command{
			Use:   "check [name...]",
			Short: "Syntax-check embedded playbooks (all when none given)",
			RunE: func(_ *cobra.Command, args []string) error {
				if err := a.dispatcher().Dispatch(cluster.CheckPlaybooks{Names: args}); err != nil {
					return err
				}
				log.Ok("Playbook syntax OK")
				return nil
			},
		},
	)
	return cmd
}

// ── doctor ────────────────────────────────────────────────────────────────────

func doctorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that ansible and the configuration are usable",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			results := doctor.Run(a.settings)
			for _, r := range results {
				if r.OK {
					log.Ok(fmt.Sprintf("%s: %s", r.Name, r.Message))
					continue
				}
				log.Error(fmt.Sprintf("%s: %s", r.Name, r.Message))
				fmt.Fprintf(os.Stderr, "    %s\n", strings.ReplaceAll(r.HowToFix, "\n", "\n    "))
			}
			if doctor.Failed(results) {
				return errors.New("some checks failed")
			}
			return nil
		},
	}
}
