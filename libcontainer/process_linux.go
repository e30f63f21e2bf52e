//go:build linux
// +build linux

package libcontainer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/nabla-containers/runlxc/libcontainer/configs"
	ll "github.com/nabla-containers/runlxc/llif"
	"github.com/opencontainers/runc/libcontainer/system"
	"github.com/opencontainers/runc/libcontainer/utils"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const stdioFdCount = 3

// initConfig is what the init process receives over the init pipe.
type initConfig struct {
	Name     string          `json:"name"`
	LxcPath  string          `json:"lxcpath"`
	Config   *configs.Config `json:"config"`
	Strategy string          `json:"strategy"`
	Ops      json.RawMessage `json:"ops"`

	// LogPriority is empty unless the caller configured a valid level.
	LogPriority string `json:"log_priority,omitempty"`
}

type initProcess struct {
	cmd        *exec.Cmd
	parentPipe *os.File
	childPipe  *os.File
	config     *initConfig
	sigs       chan os.Signal

	created   time.Time
	startTime uint64
}

func (l *LxcFactory) newInitProcess(name string, config *configs.Config, ops ll.StartOps, lxcpath string) (*initProcess, error) {
	data, err := json.Marshal(ops)
	if err != nil {
		return nil, newSystemErrorWithCause(err, "encoding start strategy")
	}
	ic := &initConfig{
		Name:     name,
		LxcPath:  lxcpath,
		Config:   config,
		Strategy: ops.Type(),
		Ops:      data,
	}
	if l.log.HasValidLevel() {
		ic.LogPriority = l.log.Priority().String()
	}

	parentPipe, childPipe, err := utils.NewSockPair("init")
	if err != nil {
		return nil, newSystemErrorWithCause(err, "creating new init pipe")
	}
	cmd := l.commandTemplate(childPipe)
	return &initProcess{
		cmd:        cmd,
		parentPipe: parentPipe,
		childPipe:  childPipe,
		config:     ic,
	}, nil
}

func (l *LxcFactory) commandTemplate(childPipe *os.File) *exec.Cmd {
	cmd := exec.Command(l.InitPath, l.InitArgs[1:]...)
	cmd.Args[0] = l.InitArgs[0]
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.ExtraFiles = append(cmd.ExtraFiles, childPipe)
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("%s=%d", initPipeEnv, stdioFdCount+len(cmd.ExtraFiles)-1),
	)
	return cmd
}

// start spawns the init process and returns once it has either replaced
// its image or reported why it could not.
func (p *initProcess) start() error {
	defer p.parentPipe.Close()

	// Signals received while the container runs are meant for it.
	p.sigs = make(chan os.Signal, 8)
	signal.Notify(p.sigs, unix.SIGINT, unix.SIGTERM, unix.SIGHUP, unix.SIGQUIT)

	err := p.cmd.Start()
	p.childPipe.Close()
	if err != nil {
		signal.Stop(p.sigs)
		return newSystemErrorWithCause(err, "starting init process")
	}
	p.created = time.Now().UTC()

	if err := json.NewEncoder(p.parentPipe).Encode(p.config); err != nil {
		p.kill()
		return newSystemErrorWithCause(err, "writing init config to pipe")
	}

	var sync syncT
	err = json.NewDecoder(p.parentPipe).Decode(&sync)
	switch {
	case err == io.EOF:
		// The pipe is close-on-exec in the child: EOF means exec happened.
	case err != nil:
		p.kill()
		return newSystemErrorWithCause(err, "reading init pipe")
	case sync.Type == procError:
		p.wait()
		return newGenericError(errors.New(sync.Message), sync.Code)
	default:
		p.kill()
		return newSystemErrorWithCause(fmt.Errorf("unexpected sync type %d", sync.Type), "reading init pipe")
	}

	if st, err := system.Stat(p.pid()); err == nil {
		p.startTime = st.StartTime
	}
	go p.forwardSignals()
	return nil
}

func (p *initProcess) forwardSignals() {
	for s := range p.sigs {
		p.signal(s)
	}
}

func (p *initProcess) pid() int {
	return p.cmd.Process.Pid
}

func (p *initProcess) signal(sig os.Signal) error {
	s, ok := sig.(syscall.Signal)
	if !ok {
		return errors.New("os: unsupported signal type")
	}
	return unix.Kill(p.pid(), s)
}

func (p *initProcess) kill() {
	p.signal(unix.SIGKILL)
	p.wait()
}

// wait reaps the init process and returns its exit status.
func (p *initProcess) wait() (int, error) {
	err := p.cmd.Wait()
	if p.sigs != nil {
		signal.Stop(p.sigs)
		close(p.sigs)
		p.sigs = nil
	}
	if err != nil {
		if _, ok := err.(*exec.ExitError); !ok {
			return -1, err
		}
	}
	ws, ok := p.cmd.ProcessState.Sys().(syscall.WaitStatus)
	if !ok {
		return p.cmd.ProcessState.ExitCode(), nil
	}
	return utils.ExitStatus(unix.WaitStatus(ws)), nil
}
