package ansible_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/kballard/go-shellquote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/h3ow3d/clusterctl/internal/ansible"
)

func newTestExecRunner() (*ansible.ExecRunner, *bytes.Buffer) {
	var out bytes.Buffer
	return &ansible.ExecRunner{Stdin: strings.NewReader(""), Stdout: &out, Stderr: &out}, &out
}

func TestExecRunnerSuccess(t *testing.T) {
	r, out := newTestExecRunner()
	_, err := r.Run(ansible.Invocation{Program: "sh", Args: []string{"-c", "echo streamed"}})
	require.NoError(t, err)
	assert.Equal(t, "streamed\n", out.String())
}

func TestExecRunnerCapture(t *testing.T) {
	r, out := newTestExecRunner()
	res, err := r.Run(ansible.Invocation{Program: "sh", Args: []string{"-c", "echo captured"}, Capture: true})
	require.NoError(t, err)
	assert.Equal(t, "captured\n", string(res.Stdout))
	assert.Empty(t, out.String())
}

func TestExecRunnerExitStatus(t *testing.T) {
	r, _ := newTestExecRunner()
	_, err := r.Run(ansible.Invocation{Program: "sh", Args: []string{"-c", "exit 3"}})

	var exitErr *ansible.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.Code)
	assert.Equal(t, "sh", exitErr.Program)
	assert.Equal(t, "sh exited with status 3", exitErr.Error())
}

func TestExecRunnerLaunchFailure(t *testing.T) {
	r, _ := newTestExecRunner()
	_, err := r.Run(ansible.Invocation{Program: "clusterctl-no-such-binary"})
	require.Error(t, err)

	var exitErr *ansible.ExitError
	assert.False(t, errors.As(err, &exitErr))
	assert.Contains(t, err.Error(), "launch clusterctl-no-such-binary")
}

func TestDryRunner(t *testing.T) {
	var out bytes.Buffer
	r := &ansible.DryRunner{Out: &out}
	_, err := r.Run(ansible.Invocation{
		Program: "ansible",
		Args:    []string{"-m", "copy", "-a", `src="/tmp/a b"`, "all"},
	})
	require.NoError(t, err)

	line := strings.TrimSuffix(out.String(), "\n")
	assert.NotContains(t, line, "\n")
	words, err := shellquote.Split(line)
	require.NoError(t, err)
	assert.Equal(t, []string{"ansible", "-m", "copy", "-a", `src="/tmp/a b"`, "all"}, words)
}
