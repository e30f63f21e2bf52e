package llcli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/nabla-containers/runlxc/libcontainer"
	"github.com/nabla-containers/runlxc/libcontainer/configs"
	"github.com/nabla-containers/runlxc/libcontainer/logs"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadConfigDefaultFile(t *testing.T) {
	lxcpath := t.TempDir()
	writeConfig(t, filepath.Join(lxcpath, "c1", "config"), "lxc.rootfs.path = /srv/c1\nlxc.log.level = INFO\n")

	conf, err := loadConfig(launchOptions{name: "c1", lxcpath: lxcpath})
	require.NoError(t, err)
	assert.Equal(t, "/srv/c1", conf.Rootfs)
	assert.Equal(t, "INFO", conf.LogLevel)

	conf, err = loadConfig(launchOptions{name: "c2", lxcpath: lxcpath})
	require.NoError(t, err)
	assert.Equal(t, &configs.Config{}, conf)
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	rcfile := filepath.Join(dir, "rc")
	writeConfig(t, rcfile, "lxc.rootfs.path = /srv/c1\nlxc.log.level = INFO\nlxc.log.file = /tmp/a.log\n")

	conf, err := loadConfig(launchOptions{
		name:        "c1",
		lxcpath:     dir,
		rcfile:      rcfile,
		defines:     []string{"lxc.rootfs.path=", "lxc.environment=FOO=bar"},
		logPriority: "TRACE",
		logFile:     filepath.Join(dir, "c1.log"),
	})
	require.NoError(t, err)
	assert.Empty(t, conf.Rootfs)
	assert.Equal(t, []string{"FOO=bar"}, conf.Environment)
	assert.Equal(t, "TRACE", conf.LogLevel)
	assert.Equal(t, filepath.Join(dir, "c1.log"), conf.LogFile)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	for _, o := range []launchOptions{
		{name: "c1", lxcpath: dir, rcfile: filepath.Join(dir, "missing")},
		{name: "c1", lxcpath: dir, defines: []string{"novalue"}},
		{name: "c1", lxcpath: dir, defines: []string{"rootfs=/x"}},
	} {
		_, err := loadConfig(o)
		require.Error(t, err)
		code, _ := libcontainer.CodeOf(err)
		assert.Equal(t, libcontainer.ConfigInvalid, code)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.Out = &buf

	log, err := newLogger(l, "lxc_execute", &configs.Config{LogLevel: "warn"}, false)
	require.NoError(t, err)
	assert.True(t, log.HasValidLevel())
	assert.Equal(t, logs.Warn, log.Priority())
	log.Infof("hidden")
	log.Warnf("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	_, err = newLogger(l, "lxc_execute", &configs.Config{LogLevel: "loud"}, false)
	assert.Error(t, err)

	log, err = newLogger(l, "lxc_execute", &configs.Config{}, false)
	require.NoError(t, err)
	assert.False(t, log.HasValidLevel())
}

func TestNewLoggerQuietAndFile(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.Out = &buf

	log, err := newLogger(l, "lxc_execute", &configs.Config{}, true)
	require.NoError(t, err)
	log.Errorf("dropped")
	assert.Empty(t, buf.String())

	path := filepath.Join(t.TempDir(), "c1.log")
	log, err = newLogger(l, "lxc_execute", &configs.Config{LogFile: path}, true)
	require.NoError(t, err)
	log.Errorf("kept")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "kept")
	assert.Contains(t, string(data), "channel=lxc_execute")
}

func TestStateCommand(t *testing.T) {
	lxcpath := t.TempDir()
	st := libcontainer.State{
		BaseState:  libcontainer.BaseState{ID: "c1", InitProcessPid: 1234, Config: configs.Config{Rootfs: "/srv/c1"}},
		Strategy:   "execute",
		Status:     libcontainer.Stopped,
		ExitStatus: 3,
	}
	data, err := json.Marshal(st)
	require.NoError(t, err)
	writeConfig(t, filepath.Join(lxcpath, "c1", "state.json"), string(data))

	var out bytes.Buffer
	app := newApp("runlxc")
	app.Writer = &out
	require.NoError(t, app.Run([]string{"runlxc", "--lxcpath", lxcpath, "state", "-n", "c1"}))

	var cs containerState
	require.NoError(t, json.Unmarshal(out.Bytes(), &cs))
	assert.Equal(t, "c1", cs.ID)
	assert.Equal(t, 1234, cs.InitProcessPid)
	assert.Equal(t, "STOPPED", cs.Status)
	assert.Equal(t, "execute", cs.Strategy)
	assert.Equal(t, "/srv/c1", cs.Rootfs)
	require.NotNil(t, cs.ExitStatus)
	assert.Equal(t, 3, *cs.ExitStatus)
}

func TestDeleteCommand(t *testing.T) {
	lxcpath := t.TempDir()
	data, err := json.Marshal(libcontainer.State{BaseState: libcontainer.BaseState{ID: "c1"}})
	require.NoError(t, err)
	writeConfig(t, filepath.Join(lxcpath, "c1", "state.json"), string(data))
	writeConfig(t, filepath.Join(lxcpath, "c1", "config"), "lxc.rootfs.path = /srv/c1\n")

	app := newApp("runlxc")
	app.Writer = &bytes.Buffer{}
	require.NoError(t, app.Run([]string{"runlxc", "--lxcpath", lxcpath, "delete", "-n", "c1"}))

	_, err = os.Stat(filepath.Join(lxcpath, "c1", "state.json"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(lxcpath, "c1", "config"))
	assert.NoError(t, err)

	err = app.Run([]string{"runlxc", "--lxcpath", lxcpath, "delete", "-n", "c1"})
	code, _ := libcontainer.CodeOf(err)
	assert.Equal(t, libcontainer.ContainerNotExists, code)
}

func TestExecuteNeedsNameAndCommand(t *testing.T) {
	app := newApp("runlxc")
	app.Writer = &bytes.Buffer{}
	lxcpath := t.TempDir()

	err := app.Run([]string{"runlxc", "--lxcpath", lxcpath, "execute", "--", "/bin/true"})
	assert.Equal(t, errEmptyName, err)

	err = app.Run([]string{"runlxc", "--lxcpath", lxcpath, "execute", "-n", "c1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing command")
}

func TestCreateSubst(t *testing.T) {
	fn := createSubst(map[string]string{"name": "runlxc"})
	assert.Equal(t, "# runlxc execute -n c1", fn("# {{name}} execute -n c1"))
}
