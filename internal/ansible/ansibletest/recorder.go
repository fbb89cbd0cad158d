// Package ansibletest provides a Runner that records invocations instead of
// launching processes.
package ansibletest

import (
	"os"
	"sync"

	"github.com/h3ow3d/clusterctl/internal/ansible"
)

// Recorder is an ansible.Runner that records every invocation.
type Recorder struct {
	mu sync.Mutex

	// ExitCodes makes the call with the given index (0-based) fail with
	// that exit status.
	ExitCodes map[int]int
	// Stdout is returned for captured invocations.
	Stdout []byte

	calls []ansible.Invocation
	files map[string][]byte
}

func (r *Recorder) Run(inv ansible.Invocation) (ansible.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := len(r.calls)
	r.calls = append(r.calls, inv)

	// Snapshot any argument that names a file, so tests can inspect
	// playbooks that are removed once the run returns.
	for _, arg := range inv.Args {
		if data, err := os.ReadFile(arg); err == nil {
			if r.files == nil {
				r.files = make(map[string][]byte)
			}
			r.files[arg] = data
		}
	}

	var res ansible.Result
	if inv.Capture {
		res.Stdout = r.Stdout
	}
	if code, ok := r.ExitCodes[idx]; ok && code != 0 {
		return res, &ansible.ExitError{Program: inv.Program, Code: code}
	}
	return res, nil
}

// Calls returns the recorded invocations in order.
func (r *Recorder) Calls() []ansible.Invocation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ansible.Invocation(nil), r.calls...)
}

// File returns the content path had when an invocation named it.
func (r *Recorder) File(path string) ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, ok := r.files[path]
	return data, ok
}
