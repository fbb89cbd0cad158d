// Package cluster maps fleet-wide actions onto ansible commands and
// playbook batches.
package cluster

// Action is a validated request for one fleet-wide operation. The set of
// actions is closed; Dispatch handles each of them.
type Action interface {
	action()
}

// Ping checks that every targeted host is reachable.
type Ping struct{}

// Reboot restarts the targeted hosts.
type Reboot struct{}

// Shutdown powers off the targeted hosts.
type Shutdown struct{}

// SSH runs the ssh module against the targeted hosts.
type SSH struct{}

// Uptime prints the uptime of the targeted hosts.
type Uptime struct{}

// Update upgrades every package on the targeted hosts.
type Update struct{}

// InventoryList prints the inventory graph with host and group variables.
type InventoryList struct{}

// InventoryHosts prints the name of every host in the inventory.
type InventoryHosts struct{}

// RunCommand runs a command line on the targeted hosts.
type RunCommand struct {
	Command string
	Become  bool
	// Chdir is the remote working directory; empty keeps the default.
	Chdir string
}

// Direction says which way CopyFile moves a file.
type Direction int

const (
	ToRemote Direction = iota
	FromRemote
)

// CopyFile copies a file to or from the targeted hosts.
type CopyFile struct {
	Src       string
	Dest      string
	Direction Direction
}

// ServiceOp is a service lifecycle operation.
type ServiceOp int

const (
	Deploy ServiceOp = iota
	Delete
)

func (op ServiceOp) String() string {
	switch op {
	case Deploy:
		return "deploy"
	case Delete:
		return "delete"
	default:
		return "unknown"
	}
}

// Service deploys or deletes a named service on the targeted hosts.
type Service struct {
	Name string
	Op   ServiceOp
}

// RunPlaybooks runs embedded playbooks by name in a single ansible-playbook
// call.
type RunPlaybooks struct {
	Names []string
}

// CheckPlaybooks syntax-checks embedded playbooks by name, all of them when
// Names is empty.
type CheckPlaybooks struct {
	Names []string
}

func (Ping) action()           {}
func (Reboot) action()         {}
func (Shutdown) action()       {}
func (SSH) action()            {}
func (Uptime) action()         {}
func (Update) action()         {}
func (InventoryList) action()  {}
func (InventoryHosts) action() {}
func (RunCommand) action()     {}
func (CopyFile) action()       {}
func (Service) action()        {}
func (RunPlaybooks) action()   {}
func (CheckPlaybooks) action() {}
