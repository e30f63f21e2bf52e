// Copyright 2014 Docker, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

//go:build linux
// +build linux

package libcontainer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/nabla-containers/runlxc/libcontainer/configs"
	"github.com/nabla-containers/runlxc/libcontainer/logs"
	ll "github.com/nabla-containers/runlxc/llif"
	"github.com/opencontainers/runc/libcontainer/system"
	"github.com/opencontainers/runc/libcontainer/utils"
	spec "github.com/opencontainers/runtime-spec/specs-go"
	"golang.org/x/sys/unix"
)

const (
	stateFilename = "state.json"
	initPipeEnv   = "_LXC_INITPIPE"
)

var (
	idRegex  = regexp.MustCompile(`^[\w+-\.]+$`)
	maxIdLen = 1024
)

// New returns a linux based container factory logging to log and
// configured with the provided option funcs.
func New(log *logs.Logger, options ...func(*LxcFactory) error) (*LxcFactory, error) {
	l := &LxcFactory{
		InitPath:   "/proc/self/exe",
		InitArgs:   []string{os.Args[0], "init"},
		log:        log,
		strategies: make(map[string]func() ll.StartOps),
	}

	for _, opt := range options {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Strategy registers a start strategy under typ. fn must return a fresh
// value the strategy's JSON encoding can be decoded into.
func Strategy(typ string, fn func() ll.StartOps) func(*LxcFactory) error {
	return func(l *LxcFactory) error {
		if _, ok := l.strategies[typ]; ok {
			return fmt.Errorf("start strategy %q registered twice", typ)
		}
		l.strategies[typ] = fn
		return nil
	}
}

// InitArgs sets the arguments used to reexec the runtime as the init
// process. args[0] is the argv[0] the init process sees.
func InitArgs(args ...string) func(*LxcFactory) error {
	return func(l *LxcFactory) error {
		if len(args) == 0 {
			return fmt.Errorf("init args cannot be empty")
		}
		l.InitArgs = args
		return nil
	}
}

// LxcFactory implements the default factory interface for linux based systems.
type LxcFactory struct {
	// InitPath is the path of the binary reexec'd as the init process.
	InitPath string

	// InitArgs are arguments for calling the init process.
	InitArgs []string

	log        *logs.Logger
	strategies map[string]func() ll.StartOps
}

func (l *LxcFactory) Start(name string, config *configs.Config, ops ll.StartOps, lxcpath string) (int, error) {
	log := l.log.Channel("lxc_start")
	if err := l.validateID(name); err != nil {
		return -1, err
	}
	if _, ok := l.strategies[ops.Type()]; !ok {
		return -1, newGenericError(fmt.Errorf("start strategy %q is not registered", ops.Type()), NoProcessOps)
	}
	containerRoot := filepath.Join(lxcpath, name)
	if st, err := l.loadState(containerRoot, name); err == nil && isRunning(st) {
		return -1, newGenericError(fmt.Errorf("container %q is already running as pid %d", name, st.InitProcessPid), IdInUse)
	}
	if err := os.MkdirAll(containerRoot, 0755); err != nil {
		return -1, newSystemErrorWithCause(err, "creating container directory")
	}

	in := ll.GenericInput{
		Name:    name,
		LxcPath: lxcpath,
		Config:  config,
		Log:     l.log,
	}

	if pre, ok := ops.(ll.PreStartOps); ok {
		if err := pre.PreStartFunc(&ll.PreStartInput{GenericInput: in}); err != nil {
			log.Errorf("failed to run pre-start for %s: %v", name, err)
			return -1, err
		}
	}
	if config.Hooks != nil {
		s := hookState(name, containerRoot, spec.StateCreating, os.Getpid())
		for _, h := range config.Hooks.Prestart {
			if err := runHook(h, s); err != nil {
				return -1, newSystemErrorWithCausef(err, "running pre-start hook %s", h.Path)
			}
		}
	}

	p, err := l.newInitProcess(name, config, ops, lxcpath)
	if err != nil {
		return -1, err
	}
	if err := p.start(); err != nil {
		log.Errorf("failed to spawn container %q: %v", name, err)
		return -1, err
	}

	state := &State{
		BaseState: BaseState{
			ID:             name,
			InitProcessPid: p.pid(),
			Config:         *config,
		},
		Strategy: ops.Type(),
		Status:   Running,
	}
	state.Created = p.created
	state.InitProcessStartTime = p.startTime
	if err := l.saveState(containerRoot, state); err != nil {
		log.Warnf("failed to save state for %s: %v", name, err)
	}

	in.Pid = p.pid()
	if err := ops.PostStartFunc(&ll.PostStartInput{GenericInput: in}); err != nil {
		p.signal(unix.SIGKILL)
		p.wait()
		return -1, err
	}

	status, err := p.wait()
	if err != nil {
		return -1, newSystemErrorWithCause(err, "waiting for init process")
	}
	log.Infof("container %s exited with status %d", name, status)

	state.Status = Stopped
	state.ExitStatus = status
	if err := l.saveState(containerRoot, state); err != nil {
		log.Warnf("failed to save state for %s: %v", name, err)
	}
	if config.Hooks != nil {
		s := hookState(name, containerRoot, spec.StateStopped, state.InitProcessPid)
		for _, h := range config.Hooks.Poststop {
			if err := runHook(h, s); err != nil {
				log.Warnf("post-stop hook %s failed: %v", h.Path, err)
			}
		}
	}
	return status, nil
}

func (l *LxcFactory) Load(name, lxcpath string) (*State, error) {
	if err := l.validateID(name); err != nil {
		return nil, err
	}
	st, err := l.loadState(filepath.Join(lxcpath, name), name)
	if err != nil {
		return nil, err
	}
	// The runtime that recorded it may have been killed before it could
	// record the exit.
	if st.Status == Running && !isRunning(st) {
		st.Status = Stopped
	}
	return st, nil
}

func (l *LxcFactory) Destroy(name, lxcpath string, force bool) error {
	st, err := l.Load(name, lxcpath)
	if err != nil {
		return err
	}
	if st.Status == Running {
		if !force {
			return newGenericError(fmt.Errorf("cannot delete container %s that is not stopped: %s", name, st.Status), IdInUse)
		}
		if err := killInit(st); err != nil {
			return err
		}
	}
	if err := os.Remove(filepath.Join(lxcpath, name, stateFilename)); err != nil && !os.IsNotExist(err) {
		return newSystemErrorWithCause(err, "removing container state")
	}
	return nil
}

func (l *LxcFactory) StartInitialization() error {
	return l.startInit()
}

func (l *LxcFactory) Type() string {
	return "lxc"
}

func (l *LxcFactory) validateID(id string) error {
	if !idRegex.MatchString(id) {
		return newGenericError(fmt.Errorf("invalid id format: %v", id), InvalidIdFormat)
	}
	if len(id) > maxIdLen {
		return newGenericError(fmt.Errorf("invalid id format: %v", id), InvalidIdFormat)
	}
	return nil
}

func (l *LxcFactory) loadState(root, id string) (*State, error) {
	f, err := os.Open(filepath.Join(root, stateFilename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, newGenericError(fmt.Errorf("container %q does not exist", id), ContainerNotExists)
		}
		return nil, newGenericError(err, SystemError)
	}
	defer f.Close()
	var state *State
	if err := json.NewDecoder(f).Decode(&state); err != nil {
		return nil, newGenericError(err, SystemError)
	}
	return state, nil
}

func (l *LxcFactory) saveState(root string, s *State) error {
	tmp, err := os.CreateTemp(root, "."+stateFilename)
	if err != nil {
		return err
	}
	if err := utils.WriteJSON(tmp, s); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(root, stateFilename))
}

// isRunning reports whether the init process recorded in st is still
// alive, and is still the same process.
func isRunning(st *State) bool {
	if st.Status != Running || st.InitProcessPid <= 0 {
		return false
	}
	if unix.Kill(st.InitProcessPid, 0) != nil {
		return false
	}
	if st.InitProcessStartTime == 0 {
		return true
	}
	stat, err := system.Stat(st.InitProcessPid)
	return err == nil && stat.StartTime == st.InitProcessStartTime
}

func killInit(st *State) error {
	_ = unix.Kill(st.InitProcessPid, unix.SIGKILL)
	for i := 0; i < 100; i++ {
		time.Sleep(100 * time.Millisecond)
		if !isRunning(st) {
			return nil
		}
	}
	return newGenericError(fmt.Errorf("container init %d still running", st.InitProcessPid), SystemError)
}
