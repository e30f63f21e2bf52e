// Package execute implements the execute start strategy: the container
// runs a single command, normally under lxc-init.
package execute

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/nabla-containers/runlxc/libcontainer"
	"github.com/nabla-containers/runlxc/libcontainer/configs"
	"github.com/nabla-containers/runlxc/libcontainer/logs"
	ll "github.com/nabla-containers/runlxc/llif"
	"github.com/opencontainers/runc/libcontainer/system"
)

const strategyType = "execute"

// Execute is the execute start strategy. It is encoded to JSON to cross
// into the init process, so only the request is exported.
type Execute struct {
	Argv  []string `json:"argv"`
	Quiet bool     `json:"quiet,omitempty"`

	resolver *Resolver
	exec     func(argv0 string, argv []string, envv []string) error
	lookPath func(file string) (string, error)
}

// New returns the execute strategy for argv.
func New(argv []string, quiet bool) *Execute {
	return &Execute{Argv: argv, Quiet: quiet}
}

// Factory is registered with the orchestrator so the init process can
// decode the strategy.
func Factory() ll.StartOps {
	return &Execute{}
}

func (e *Execute) Type() string {
	return strategyType
}

// StartFunc replaces the init process with the command. It only returns
// on failure.
func (e *Execute) StartFunc(in *ll.StartInput) error {
	log := in.Log.Channel("lxc_execute")

	r := e.resolver
	if r == nil {
		r = NewResolver(log)
	}
	argv, err := BuildArgv(in, LaunchRequest{Argv: e.Argv, Quiet: e.Quiet}, r)
	if err != nil {
		log.Errorf("failed to build the command for %s: %v", in.Name, err)
		return err
	}

	path := argv[0]
	if !needsInit(in.Config) {
		lookPath := e.lookPath
		if lookPath == nil {
			lookPath = exec.LookPath
		}
		if path, err = lookPath(argv[0]); err != nil {
			log.SysErrorf(err, "failed to find %s", argv[0])
			return libcontainer.NewError(err, libcontainer.ExecFailed)
		}
	}

	log.Noticef("exec'ing '%s'", argv[0])

	execFn := e.exec
	if execFn == nil {
		execFn = system.Exec
	}
	env := append(os.Environ(), in.Config.Environment...)
	err = execFn(path, argv, env)
	if err == nil {
		err = fmt.Errorf("exec of %s returned", path)
	}
	log.SysErrorf(err, "failed to exec %s", path)
	return libcontainer.NewError(err, libcontainer.ExecFailed)
}

func (e *Execute) PostStartFunc(in *ll.PostStartInput) error {
	name := in.Name
	if len(e.Argv) > 0 {
		name = e.Argv[0]
	}
	in.Log.Channel("lxc_execute").Noticef("'%s' started with pid '%d'", name, in.Pid)
	return nil
}

// Starter runs a container with a start strategy and waits for it.
type Starter interface {
	Start(name string, config *configs.Config, ops ll.StartOps, lxcpath string) (int, error)
}

// Launch runs argv in the container name and returns its exit status.
func Launch(f Starter, log *logs.Logger, name string, argv []string, quiet bool, conf *configs.Config, lxcpath string) (int, error) {
	if len(argv) == 0 {
		return -1, libcontainer.NewError(fmt.Errorf("no command to execute"), libcontainer.ConfigInvalid)
	}
	if err := libcontainer.CheckInherited(conf, -1, log.Channel("lxc_start")); err != nil {
		return -1, err
	}
	conf.IsExecute = true
	return f.Start(name, conf, New(argv, quiet), lxcpath)
}
