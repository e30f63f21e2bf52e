package configs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
# execute container
lxc.rootfs.path = /var/lib/lxc/c1/rootfs
lxc.log.level = WARN
lxc.close_all_fds = 1
lxc.init.cmd = /sbin/my-init --verbose
lxc.environment = FOO=bar
lxc.environment = A=b=c
lxc.hook.pre-start = /usr/share/lxc/hooks/prepare arg1
lxc.hook.post-stop = /usr/share/lxc/hooks/cleanup
lxc.net.0.type = veth
`

func TestParse(t *testing.T) {
	c := &Config{}
	require.NoError(t, c.Parse(strings.NewReader(sampleConfig)))

	assert.Equal(t, "/var/lib/lxc/c1/rootfs", c.Rootfs)
	assert.Equal(t, "WARN", c.LogLevel)
	assert.True(t, c.CloseAllFds)
	assert.Equal(t, []string{"/sbin/my-init", "--verbose"}, c.InitCmd)
	assert.Equal(t, []string{"FOO=bar", "A=b=c"}, c.Environment)

	require.NotNil(t, c.Hooks)
	require.Len(t, c.Hooks.Prestart, 1)
	assert.Equal(t, "/usr/share/lxc/hooks/prepare", c.Hooks.Prestart[0].Path)
	assert.Equal(t, []string{"/usr/share/lxc/hooks/prepare", "arg1"}, c.Hooks.Prestart[0].Args)
	require.Len(t, c.Hooks.Poststop, 1)
	assert.Equal(t, "/usr/share/lxc/hooks/cleanup", c.Hooks.Poststop[0].Path)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"missing equals", "lxc.rootfs /tmp"},
		{"empty key", " = value"},
		{"non lxc key", "rootfs = /tmp"},
		{"bad bool", "lxc.close_all_fds = maybe"},
		{"empty hook", "lxc.hook.pre-start = "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			err := c.Parse(strings.NewReader(tt.in))
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "line 1")
		})
	}
}

func TestSetOverrides(t *testing.T) {
	c := &Config{Rootfs: "/old"}
	require.NoError(t, c.Set("lxc.rootfs", ""))
	assert.Empty(t, c.Rootfs)

	require.NoError(t, c.Set("lxc.loglevel", "debug"))
	assert.Equal(t, "debug", c.LogLevel)

	require.NoError(t, c.Set("lxc.environment", "X=1"))
	require.NoError(t, c.Set("lxc.environment", ""))
	assert.Nil(t, c.Environment)
}

func TestEnvironmentFromHost(t *testing.T) {
	os.Setenv("RUNLXC_TEST_PASSTHROUGH", "yes")
	defer os.Unsetenv("RUNLXC_TEST_PASSTHROUGH")

	c := &Config{}
	require.NoError(t, c.Set("lxc.environment", "RUNLXC_TEST_PASSTHROUGH"))
	assert.Equal(t, []string{"RUNLXC_TEST_PASSTHROUGH=yes"}, c.Environment)
}

func TestSplitKeyValue(t *testing.T) {
	k, v, err := SplitKeyValue("lxc.rootfs.path=/a=b")
	require.NoError(t, err)
	assert.Equal(t, "lxc.rootfs.path", k)
	assert.Equal(t, "/a=b", v)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/lxc/c1/rootfs", c.Rootfs)

	_, err = Load(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestInitCommand(t *testing.T) {
	c := &Config{}
	assert.Equal(t, DefaultInitCmd, c.InitCommand())
	c.InitCmd = []string{"/bin/true"}
	assert.Equal(t, []string{"/bin/true"}, c.InitCommand())
}
