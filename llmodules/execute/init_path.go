package execute

import (
	"fmt"

	"github.com/nabla-containers/runlxc/libcontainer"
	"github.com/nabla-containers/runlxc/libcontainer/logs"
	"golang.org/x/sys/unix"
)

// InitDir is the directory lxc-init was installed under. Packagers set it
// with -ldflags "-X github.com/nabla-containers/runlxc/llmodules/execute.InitDir=...".
var InitDir = "/usr/libexec"

// Resolver finds the lxc-init helper on the host. It probes the filesystem
// on every call.
type Resolver struct {
	InitDir string

	log  *logs.Logger
	stat func(path string) error
}

// NewResolver returns a Resolver searching the installed locations.
func NewResolver(log *logs.Logger) *Resolver {
	return &Resolver{
		InitDir: InitDir,
		log:     log,
		stat:    statPath,
	}
}

func statPath(path string) error {
	var st unix.Stat_t
	return unix.Stat(path, &st)
}

// searchPaths returns the lxc-init candidates in priority order.
func (r *Resolver) searchPaths() []string {
	return []string{
		fmt.Sprintf("%s/lxc/lxc-init", r.InitDir),
		"/usr/lib/lxc/lxc-init",
		"/sbin/lxc-init",
	}
}

// Resolve returns the first lxc-init candidate that exists.
func (r *Resolver) Resolve() (string, error) {
	for _, path := range r.searchPaths() {
		if len(path) >= unix.PathMax {
			err := libcontainer.NewError(fmt.Errorf("%.64s...: %s", path, libcontainer.PathTooLong), libcontainer.PathTooLong)
			r.log.Warnf("skipping lxc-init candidate: %v", err)
			continue
		}
		if err := r.stat(path); err != nil {
			r.log.Tracef("no lxc-init at %s: %v", path, err)
			continue
		}
		return path, nil
	}
	return "", libcontainer.NewError(fmt.Errorf("failed to find an lxc-init binary"), libcontainer.InitNotFound)
}
