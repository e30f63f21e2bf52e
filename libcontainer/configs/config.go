package configs

import (
	spec "github.com/opencontainers/runtime-spec/specs-go"
)

// DefaultInitCmd is run by the start strategy when lxc.init.cmd is unset.
var DefaultInitCmd = []string{"/sbin/init"}

// Config represents the configuration of an lxc container as read from its
// config file and --define overrides.
type Config struct {
	// Rootfs is the container root filesystem. When it is empty the
	// container shares the host's filesystem and lxc-init sets the
	// container up.
	Rootfs string `json:"rootfs,omitempty"`

	// LogLevel is the configured log priority name, empty if unset.
	LogLevel string `json:"loglevel,omitempty"`
	LogFile  string `json:"logfile,omitempty"`

	// CloseAllFds closes stray inherited file descriptors instead of
	// refusing to start.
	CloseAllFds bool `json:"close_all_fds"`

	// IsExecute is set when the container is run through lxc-execute.
	IsExecute bool `json:"is_execute"`

	// InitCmd is the command the start strategy runs.
	InitCmd []string `json:"init_cmd,omitempty"`

	// Environment is passed to the program that replaces the init process.
	Environment []string `json:"environment,omitempty"`

	// Hooks configures callbacks for container lifecycle events.
	Hooks *spec.Hooks `json:"hooks,omitempty"`
}

// InitCommand returns the command used by the start strategy.
func (c *Config) InitCommand() []string {
	if len(c.InitCmd) == 0 {
		return DefaultInitCmd
	}
	return c.InitCmd
}
