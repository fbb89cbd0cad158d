// Package playbooks embeds the playbooks clusterctl runs for service
// deploy and delete operations.
package playbooks

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/h3ow3d/clusterctl/internal/ansible"
)

// Embedded playbook names.
const (
	InstallDocker          = "install-docker"
	UninstallDocker        = "uninstall-docker"
	InstallKubernetes      = "install-kubernetes"
	SetupKubernetesCluster = "setup-kubernetes-cluster"
	UninstallKubernetes    = "uninstall-kubernetes"
)

const ext = ".yaml"

//go:embed *.yaml
var files embed.FS

// ErrNotFound is returned for a name with no embedded playbook.
var ErrNotFound = errors.New("no such playbook")

// Names returns the names of all embedded playbooks, sorted.
func Names() []string {
	matches, err := fs.Glob(files, "*"+ext)
	if err != nil {
		// Only possible for a malformed pattern.
		panic(err)
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(m, ext))
	}
	return names
}

// Content returns the text of the named playbook.
func Content(name string) ([]byte, error) {
	data, err := files.ReadFile(name + ext)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return data, nil
}

// Load returns the named playbook, validated, ready to be run.
func Load(name string) (*ansible.Playbook, error) {
	data, err := Content(name)
	if err != nil {
		return nil, err
	}
	if err := Validate(name, data); err != nil {
		return nil, err
	}
	return ansible.NewPlaybook(name, data), nil
}

// LoadAll loads the named playbooks in order.
func LoadAll(names ...string) ([]*ansible.Playbook, error) {
	out := make([]*ansible.Playbook, 0, len(names))
	for _, n := range names {
		p, err := Load(n)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Validate checks that data is a YAML list of plays, each naming the hosts
// it targets.
func Validate(name string, data []byte) error {
	var plays []map[string]any
	if err := yaml.Unmarshal(data, &plays); err != nil {
		return fmt.Errorf("playbook %q: YAML parse error: %w", name, err)
	}
	if len(plays) == 0 {
		return fmt.Errorf("playbook %q: no plays", name)
	}

	var errs []string
	for i, play := range plays {
		hosts, _ := play["hosts"].(string)
		if strings.TrimSpace(hosts) == "" {
			errs = append(errs, fmt.Sprintf("play %d: missing required field: hosts", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("playbook %q is invalid:\n  - %s", name, strings.Join(errs, "\n  - "))
	}
	return nil
}
