package cluster_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/h3ow3d/clusterctl/internal/ansible"
	"github.com/h3ow3d/clusterctl/internal/ansible/ansibletest"
	"github.com/h3ow3d/clusterctl/internal/cluster"
	"github.com/h3ow3d/clusterctl/internal/config"
	"github.com/h3ow3d/clusterctl/internal/playbooks"
)

const inventory = "inventory.yaml"

func newDispatcher(t *testing.T, rec *ansibletest.Recorder) (*cluster.Dispatcher, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return &cluster.Dispatcher{
		Exec: &ansible.Executor{
			Runner:    rec,
			Inventory: inventory,
			TempDir:   t.TempDir(),
		},
		Out: &out,
	}, &out
}

func TestCommandTable(t *testing.T) {
	tests := []struct {
		name   string
		action cluster.Action
		want   []string
	}{
		{"ping", cluster.Ping{}, []string{"-m", "ping", "all"}},
		{"reboot", cluster.Reboot{}, []string{"-K", "-b", "-m", "reboot", "all"}},
		{"shutdown", cluster.Shutdown{}, []string{"-K", "-b", "-m", "community.general.shutdown", "all"}},
		{"ssh", cluster.SSH{}, []string{"-m", "ssh", "all"}},
		{"uptime", cluster.Uptime{}, []string{"-m", "command", "-a", "uptime", "all"}},
		{
			"run",
			cluster.RunCommand{Command: "uptime"},
			[]string{"-m", "command", "-a", "uptime", "all"},
		},
		{
			"run with become and chdir",
			cluster.RunCommand{Command: "make install", Become: true, Chdir: "/opt/src"},
			[]string{"-K", "-b", "-m", "command", "-a", `make install chdir="/opt/src"`, "all"},
		},
		{
			"copy to remote",
			cluster.CopyFile{Src: "/tmp/a", Dest: "/tmp/b", Direction: cluster.ToRemote},
			[]string{"-m", "copy", "-a", `src="/tmp/a" dest="/tmp/b"`, "all"},
		},
		{
			"fetch from remote",
			cluster.CopyFile{Src: "/tmp/a", Dest: "/tmp/b", Direction: cluster.FromRemote},
			[]string{"-m", "fetch", "-a", `src="/tmp/a" dest="/tmp/b"`, "all"},
		},
		{
			"update",
			cluster.Update{},
			[]string{"-K", "-b", "-m", "apt", "-a", `update_cache="yes" autoremove="yes" force_apt_get="yes" upgrade="yes"`, "all"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cmd, ok := cluster.Command(tc.action, "")
			require.True(t, ok)
			assert.Equal(t, tc.want, cmd.Args("", 0))
		})
	}
}

func TestCommandNotAdhoc(t *testing.T) {
	for _, a := range []cluster.Action{
		cluster.Service{Name: "docker"},
		cluster.InventoryList{},
		cluster.InventoryHosts{},
		cluster.RunPlaybooks{},
		cluster.CheckPlaybooks{},
	} {
		_, ok := cluster.Command(a, "")
		assert.False(t, ok, "%T", a)
	}
}

func TestCommandUsesHostPattern(t *testing.T) {
	cmd, ok := cluster.Command(cluster.Ping{}, "workers")
	require.True(t, ok)
	assert.Equal(t, "workers", cmd.Target())
}

func TestServiceBatch(t *testing.T) {
	tests := []struct {
		svc  cluster.Service
		want []string
	}{
		{cluster.Service{Name: "kubernetes", Op: cluster.Deploy}, []string{playbooks.InstallKubernetes, playbooks.SetupKubernetesCluster}},
		{cluster.Service{Name: "kubernetes", Op: cluster.Delete}, []string{playbooks.UninstallKubernetes}},
		{cluster.Service{Name: "docker", Op: cluster.Deploy}, []string{playbooks.InstallDocker}},
		{cluster.Service{Name: "docker", Op: cluster.Delete}, []string{playbooks.UninstallDocker}},
	}
	for _, tc := range tests {
		t.Run(tc.svc.Name+"/"+tc.svc.Op.String(), func(t *testing.T) {
			b, err := cluster.ServiceBatch(tc.svc)
			require.NoError(t, err)
			assert.Equal(t, ansible.Sequential, b.Mode)
			require.Equal(t, len(tc.want), b.Len())
			for i, p := range b.Playbooks() {
				assert.Equal(t, tc.want[i], p.Name)
			}
		})
	}
}

func TestServiceBatchUnknown(t *testing.T) {
	for _, op := range []cluster.ServiceOp{cluster.Deploy, cluster.Delete} {
		b, err := cluster.ServiceBatch(cluster.Service{Name: "unknown-svc", Op: op})
		assert.Nil(t, b)
		require.ErrorIs(t, err, cluster.ErrUnknownService)
		assert.Contains(t, err.Error(), "unknown-svc")
	}
}

func TestDispatchAdhoc(t *testing.T) {
	rec := &ansibletest.Recorder{}
	d, _ := newDispatcher(t, rec)
	d.Hosts = "web"

	require.NoError(t, d.Dispatch(cluster.Reboot{}))

	calls := rec.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "ansible", calls[0].Program)
	assert.Equal(t, []string{"--inventory", inventory, "-K", "-b", "-m", "reboot", "web"}, calls[0].Args)
}

func TestDispatchKubernetesDeployRunsInOrder(t *testing.T) {
	rec := &ansibletest.Recorder{}
	d, _ := newDispatcher(t, rec)

	require.NoError(t, d.Dispatch(cluster.Service{Name: "kubernetes", Op: cluster.Deploy}))

	calls := rec.Calls()
	require.Len(t, calls, 2)
	for i, name := range []string{playbooks.InstallKubernetes, playbooks.SetupKubernetesCluster} {
		want, err := playbooks.Content(name)
		require.NoError(t, err)
		args := calls[i].Args
		got, ok := rec.File(args[len(args)-1])
		require.True(t, ok)
		assert.Equal(t, string(want), string(got))
	}
}

func TestDispatchKubernetesDeployStopsOnInstallFailure(t *testing.T) {
	rec := &ansibletest.Recorder{ExitCodes: map[int]int{0: 2}}
	d, _ := newDispatcher(t, rec)

	err := d.Dispatch(cluster.Service{Name: "kubernetes", Op: cluster.Deploy})
	var exitErr *ansible.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	assert.Len(t, rec.Calls(), 1, "cluster setup must not run after a failed install")
}

func TestDispatchUnknownServiceRunsNothing(t *testing.T) {
	rec := &ansibletest.Recorder{}
	d, _ := newDispatcher(t, rec)

	err := d.Dispatch(cluster.Service{Name: "unknown-svc", Op: cluster.Deploy})
	require.ErrorIs(t, err, cluster.ErrUnknownService)
	assert.Empty(t, rec.Calls())
}

func TestDispatchRequiresInventory(t *testing.T) {
	rec := &ansibletest.Recorder{}
	d, _ := newDispatcher(t, rec)
	d.Exec.Inventory = ""

	for _, a := range []cluster.Action{cluster.Ping{}, cluster.InventoryList{}, cluster.Service{Name: "docker"}} {
		err := d.Dispatch(a)
		assert.ErrorIs(t, err, config.ErrNoInventory, "%T", a)
	}
	assert.Empty(t, rec.Calls())
}

func TestDispatchUnknownServiceWithoutInventory(t *testing.T) {
	rec := &ansibletest.Recorder{}
	d, _ := newDispatcher(t, rec)
	d.Exec.Inventory = ""

	err := d.Dispatch(cluster.Service{Name: "unknown-svc", Op: cluster.Delete})
	require.ErrorIs(t, err, cluster.ErrUnknownService)
	assert.NotErrorIs(t, err, config.ErrNoInventory)
	assert.Empty(t, rec.Calls())
}

func TestDispatchRunPlaybooksCombined(t *testing.T) {
	rec := &ansibletest.Recorder{}
	d, _ := newDispatcher(t, rec)

	require.NoError(t, d.Dispatch(cluster.RunPlaybooks{Names: []string{playbooks.InstallDocker, playbooks.UninstallDocker}}))

	calls := rec.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "ansible-playbook", calls[0].Program)
	assert.Len(t, calls[0].Args, 3+2)
}

func TestDispatchRunPlaybooksErrors(t *testing.T) {
	rec := &ansibletest.Recorder{}
	d, _ := newDispatcher(t, rec)

	assert.Error(t, d.Dispatch(cluster.RunPlaybooks{}))
	assert.ErrorIs(t, d.Dispatch(cluster.RunPlaybooks{Names: []string{"nope"}}), playbooks.ErrNotFound)
	assert.Empty(t, rec.Calls())
}

func TestDispatchCheckPlaybooksNeedsNoInventory(t *testing.T) {
	rec := &ansibletest.Recorder{}
	d, _ := newDispatcher(t, rec)
	d.Exec.Inventory = ""

	require.NoError(t, d.Dispatch(cluster.CheckPlaybooks{}))

	calls := rec.Calls()
	assert.Len(t, calls, len(playbooks.Names()))
	for _, c := range calls {
		assert.Equal(t, "--syntax-check", c.Args[0])
	}
}

func TestDispatchInventoryList(t *testing.T) {
	rec := &ansibletest.Recorder{}
	d, _ := newDispatcher(t, rec)

	require.NoError(t, d.Dispatch(cluster.InventoryList{}))

	calls := rec.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "ansible-inventory", calls[0].Program)
}

func TestDispatchInventoryHosts(t *testing.T) {
	rec := &ansibletest.Recorder{Stdout: []byte(`{"workers": {"hosts": ["b", "a"]}}`)}
	d, out := newDispatcher(t, rec)

	require.NoError(t, d.Dispatch(cluster.InventoryHosts{}))
	assert.Equal(t, "a\nb\n", out.String())
}

func TestDispatchPropagatesExitStatus(t *testing.T) {
	rec := &ansibletest.Recorder{ExitCodes: map[int]int{0: 4}}
	d, _ := newDispatcher(t, rec)

	err := d.Dispatch(cluster.Ping{})
	var exitErr *ansible.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 4, exitErr.Code)
}
