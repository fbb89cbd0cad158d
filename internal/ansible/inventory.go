package ansible

import (
	"encoding/json"
	"fmt"
	"sort"
)

const inventoryBin = "ansible-inventory"

// ListInventory prints every host and group of the inventory together with
// their variables.
func (e *Executor) ListInventory() error {
	args := []string{"--graph", "--vars"}
	if e.Inventory != "" {
		args = append(args, "--inventory", e.Inventory)
	}
	_, err := e.run(Invocation{Program: inventoryBin, Args: args})
	return err
}

// InventoryHosts returns the sorted names of every host in the inventory.
func (e *Executor) InventoryHosts() ([]string, error) {
	args := []string{"--list"}
	if e.Inventory != "" {
		args = append(args, "--inventory", e.Inventory)
	}
	res, err := e.run(Invocation{Program: inventoryBin, Args: args, Capture: true})
	if err != nil {
		return nil, err
	}
	return ParseHosts(res.Stdout)
}

// ParseHosts extracts host names from `ansible-inventory --list` output.
// Hosts are collected from every group and from the _meta hostvars section,
// since hosts without variables only appear in their groups.
func ParseHosts(data []byte) ([]string, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse inventory listing: %w", err)
	}

	seen := make(map[string]bool)
	for key, raw := range doc {
		if key == "_meta" {
			var meta struct {
				HostVars map[string]json.RawMessage `json:"hostvars"`
			}
			if err := json.Unmarshal(raw, &meta); err != nil {
				return nil, fmt.Errorf("parse inventory _meta: %w", err)
			}
			for h := range meta.HostVars {
				seen[h] = true
			}
			continue
		}
		var group struct {
			Hosts []string `json:"hosts"`
		}
		if err := json.Unmarshal(raw, &group); err != nil {
			return nil, fmt.Errorf("parse inventory group %s: %w", key, err)
		}
		for _, h := range group.Hosts {
			seen[h] = true
		}
	}

	hosts := make([]string, 0, len(seen))
	for h := range seen {
		hosts = append(hosts, h)
	}
	sort.Strings(hosts)
	return hosts, nil
}
