package libcontainer

import (
	"time"

	"github.com/nabla-containers/runlxc/libcontainer/configs"
)

// Status is the state of a container's init process.
type Status int

const (
	// Stopped is the status of a container that is not running.
	Stopped Status = iota
	// Running is the status of a container whose init process is alive.
	Running
)

func (s Status) String() string {
	switch s {
	case Stopped:
		return "STOPPED"
	case Running:
		return "RUNNING"
	default:
		return "UNKNOWN"
	}
}

// BaseState represents the platform agnostic pieces relating to a
// running container's state
type BaseState struct {
	// ID is the container name.
	ID string `json:"id"`

	// InitProcessPid is the init process id in the parent namespace.
	InitProcessPid int `json:"init_process_pid"`

	// InitProcessStartTime is the init process start time in clock cycles since boot time.
	InitProcessStartTime uint64 `json:"init_process_start"`

	// Created is the unix timestamp for the creation time of the container in UTC
	Created time.Time `json:"created"`

	// Config is the container's configuration.
	Config configs.Config `json:"config"`
}

// State represents a container's recorded state
type State struct {
	BaseState

	// Strategy is the type of start strategy used.
	Strategy string `json:"strategy"`

	Status Status `json:"status"`

	// ExitStatus of the init process, meaningful once Stopped.
	ExitStatus int `json:"exit_status"`
}
