// Package doctor checks that the host running clusterctl has what it needs.
package doctor

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/h3ow3d/clusterctl/internal/config"
)

// CheckResult holds the outcome of a single doctor check.
type CheckResult struct {
	Name     string
	OK       bool
	Message  string
	HowToFix string
}

// Run performs all prerequisite checks and returns the results.
// It never returns an error itself; pass/fail is encoded in each CheckResult.
func Run(s config.Settings) []CheckResult {
	return []CheckResult{
		checkCommand("ansible", "ansible", "--version"),
		checkCommand("ansible-playbook", "ansible-playbook", "--version"),
		checkCommand("ansible-inventory", "ansible-inventory", "--version"),
		checkInventory(s),
		checkTempDir(s.TmpDir),
	}
}

// Failed reports whether any result is not OK.
func Failed(results []CheckResult) bool {
	for _, r := range results {
		if !r.OK {
			return true
		}
	}
	return false
}

// checkCommand verifies that an executable is on PATH and runs without error.
func checkCommand(name, bin string, args ...string) CheckResult {
	path, err := exec.LookPath(bin)
	if err != nil {
		return CheckResult{
			Name:     name,
			OK:       false,
			Message:  fmt.Sprintf("%s not found in PATH", bin),
			HowToFix: installHint(bin),
		}
	}
	cmd := exec.Command(path, args...) //nolint:gosec // path is resolved via LookPath
	if out, err := cmd.CombinedOutput(); err != nil {
		return CheckResult{
			Name:     name,
			OK:       false,
			Message:  fmt.Sprintf("%s found but failed: %s", bin, string(out)),
			HowToFix: installHint(bin),
		}
	}
	return CheckResult{Name: name, OK: true, Message: fmt.Sprintf("%s found", path)}
}

// checkInventory verifies that an inventory is configured and, when it names
// a local path, that the path exists.
func checkInventory(s config.Settings) CheckResult {
	const name = "inventory"
	if err := s.RequireInventory(); err != nil {
		return CheckResult{
			Name:    name,
			OK:      false,
			Message: err.Error(),
			HowToFix: "Pass --inventory, set " + config.EnvInventory + ", or add to " +
				config.DefaultDirs().ConfigFile() + ":\n  inventory: /path/to/hosts.yaml",
		}
	}
	inventory := s.Inventory
	if _, err := os.Stat(inventory); err != nil {
		return CheckResult{
			Name:     name,
			OK:       false,
			Message:  fmt.Sprintf("cannot read inventory %s: %v", inventory, err),
			HowToFix: "Check the inventory path, or pass a comma-separated host list such as 'node1,node2,'.",
		}
	}
	return CheckResult{Name: name, OK: true, Message: fmt.Sprintf("inventory %s found", inventory)}
}

// checkTempDir verifies that playbooks can be written where they will be
// materialized.
func checkTempDir(dir string) CheckResult {
	const name = "playbook directory"
	f, err := os.CreateTemp(dir, "clusterctl-doctor-*")
	if err != nil {
		return CheckResult{
			Name:     name,
			OK:       false,
			Message:  fmt.Sprintf("cannot write playbooks: %v", err),
			HowToFix: "Set tmp_dir in the config file or " + config.EnvTmpDir + " to a writable directory.",
		}
	}
	path := f.Name()
	_ = f.Close()
	_ = os.Remove(path)

	where := dir
	if where == "" {
		where = os.TempDir()
	}
	return CheckResult{Name: name, OK: true, Message: fmt.Sprintf("%s is writable", where)}
}

// installHint returns a human-friendly install hint for a known binary.
func installHint(bin string) string {
	hints := map[string]string{
		"ansible":           "sudo apt install ansible   # or: pipx install --include-deps ansible",
		"ansible-playbook":  "sudo apt install ansible   # ansible-playbook ships with ansible",
		"ansible-inventory": "sudo apt install ansible   # ansible-inventory ships with ansible",
	}
	if hint, ok := hints[bin]; ok {
		return hint
	}
	return fmt.Sprintf("Install %q and ensure it is on your PATH.", bin)
}
