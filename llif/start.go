package llif

import (
	"github.com/nabla-containers/runlxc/libcontainer/configs"
	"github.com/nabla-containers/runlxc/libcontainer/logs"
)

type GenericInput struct {
	// Name is the name of the container
	Name string

	// LxcPath is the directory holding the container's state directory
	LxcPath string

	// Config contains the configuration of the container
	Config *configs.Config

	// Log is the caller's logging channel
	Log *logs.Logger

	// Pid of the init process, only known after start
	Pid int
}

type PreStartInput struct {
	GenericInput
}

type StartInput struct {
	GenericInput
}

type PostStartInput struct {
	GenericInput
}
