// Package start implements the start strategy: the container's init
// process is the configured init command, run without lxc-init.
package start

import (
	"os"
	"os/exec"

	"github.com/nabla-containers/runlxc/libcontainer"
	ll "github.com/nabla-containers/runlxc/llif"
	"github.com/opencontainers/runc/libcontainer/system"
)

type Start struct {
	exec     func(argv0 string, argv []string, envv []string) error
	lookPath func(file string) (string, error)
}

func New() *Start {
	return &Start{}
}

// Factory is registered with the orchestrator for the init process.
func Factory() ll.StartOps {
	return New()
}

func (s *Start) Type() string {
	return "start"
}

// PreStartFunc checks the init command can be found before anything is
// spawned.
func (s *Start) PreStartFunc(in *ll.PreStartInput) error {
	argv := in.Config.InitCommand()
	if _, err := s.look(argv[0]); err != nil {
		in.Log.Channel("lxc_start").Errorf("init command %s not found: %v", argv[0], err)
		return libcontainer.NewError(err, libcontainer.ConfigInvalid)
	}
	return nil
}

func (s *Start) StartFunc(in *ll.StartInput) error {
	log := in.Log.Channel("lxc_start")
	argv := in.Config.InitCommand()

	path, err := s.look(argv[0])
	if err != nil {
		log.SysErrorf(err, "failed to find %s", argv[0])
		return libcontainer.NewError(err, libcontainer.ExecFailed)
	}

	log.Noticef("exec'ing '%s'", argv[0])
	execFn := s.exec
	if execFn == nil {
		execFn = system.Exec
	}
	err = execFn(path, argv, append(os.Environ(), in.Config.Environment...))
	log.SysErrorf(err, "failed to exec %s", path)
	return libcontainer.NewError(err, libcontainer.ExecFailed)
}

func (s *Start) PostStartFunc(in *ll.PostStartInput) error {
	in.Log.Channel("lxc_start").Infof("'%s' started with pid '%d'", in.Name, in.Pid)
	return nil
}

func (s *Start) look(file string) (string, error) {
	if s.lookPath != nil {
		return s.lookPath(file)
	}
	return exec.LookPath(file)
}
