package ansible

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/kballard/go-shellquote"
)

// Invocation is one run of an external ansible tool.
type Invocation struct {
	Program string
	Args    []string
	// Capture collects standard output instead of streaming it.
	Capture bool
}

// String renders the invocation as a shell-quoted command line.
func (inv Invocation) String() string {
	return shellquote.Join(append([]string{inv.Program}, inv.Args...)...)
}

// Result is what a finished invocation produced.
type Result struct {
	// Stdout is set only for captured invocations.
	Stdout []byte
}

// ExitError reports that an external tool ran but exited non-zero.
type ExitError struct {
	Program string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Program, e.Code)
}

// Runner executes invocations one at a time, blocking until each finishes.
type Runner interface {
	Run(inv Invocation) (Result, error)
}

// ExecRunner runs invocations as child processes attached to the terminal
// so that become-password prompts and interactive modules work.
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner returns an ExecRunner wired to the process's own streams.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

func (r *ExecRunner) Run(inv Invocation) (Result, error) {
	cmd := exec.Command(inv.Program, inv.Args...)
	cmd.Stdin = r.Stdin
	cmd.Stderr = r.Stderr

	var out bytes.Buffer
	if inv.Capture {
		cmd.Stdout = &out
	} else {
		cmd.Stdout = r.Stdout
	}

	err := cmd.Run()
	res := Result{}
	if inv.Capture {
		res.Stdout = out.Bytes()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return res, &ExitError{Program: inv.Program, Code: exitErr.ExitCode()}
	}
	if err != nil {
		return res, fmt.Errorf("launch %s: %w", inv.Program, err)
	}
	return res, nil
}

// DryRunner prints each invocation instead of running it.
type DryRunner struct {
	Out io.Writer
}

func (r *DryRunner) Run(inv Invocation) (Result, error) {
	if _, err := fmt.Fprintln(r.Out, inv.String()); err != nil {
		return Result{}, fmt.Errorf("print invocation: %w", err)
	}
	return Result{}, nil
}
