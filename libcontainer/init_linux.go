//go:build linux
// +build linux

package libcontainer

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/nabla-containers/runlxc/libcontainer/logs"
	ll "github.com/nabla-containers/runlxc/llif"
	"github.com/opencontainers/runc/libcontainer/utils"
)

// startInit runs inside the reexec'd runtime. Any error it returns is
// also reported to the parent over the init pipe.
func (l *LxcFactory) startInit() (err error) {
	envInitPipe := os.Getenv(initPipeEnv)
	pipefd, err := strconv.Atoi(envInitPipe)
	if err != nil {
		return fmt.Errorf("unable to convert %s=%s to int: %s", initPipeEnv, envInitPipe, err)
	}
	os.Unsetenv(initPipeEnv)

	pipe := os.NewFile(uintptr(pipefd), "init-pipe")
	defer pipe.Close()
	defer func() {
		if err == nil {
			return
		}
		code, ok := CodeOf(err)
		if !ok {
			code = SystemError
		}
		if werr := json.NewEncoder(pipe).Encode(syncT{Type: procError, Code: code, Message: err.Error()}); werr != nil {
			l.log.Errorf("failed to report error to parent: %v", werr)
		}
	}()

	var config *initConfig
	if err := json.NewDecoder(pipe).Decode(&config); err != nil {
		return newSystemErrorWithCause(err, "reading init config from pipe")
	}

	// Exec closes the pipe, which tells the parent we got there. Nothing
	// else we hold may leak into the container either.
	if err := utils.CloseExecFrom(stdioFdCount); err != nil {
		return newSystemErrorWithCause(err, "marking fds close-on-exec")
	}

	if config.LogPriority != "" {
		p, err := logs.ParsePriority(config.LogPriority)
		if err != nil {
			return newGenericError(err, ConfigInvalid)
		}
		l.log.SetPriority(p)
	}

	fn, ok := l.strategies[config.Strategy]
	if !ok {
		return newGenericError(fmt.Errorf("start strategy %q is not registered", config.Strategy), NoProcessOps)
	}
	ops := fn()
	if err := json.Unmarshal(config.Ops, ops); err != nil {
		return newSystemErrorWithCausef(err, "decoding %s start strategy", config.Strategy)
	}

	return ops.StartFunc(&ll.StartInput{
		GenericInput: ll.GenericInput{
			Name:    config.Name,
			LxcPath: config.LxcPath,
			Config:  config.Config,
			Log:     l.log,
			Pid:     os.Getpid(),
		},
	})
}
