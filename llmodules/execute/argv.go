package execute

import (
	"fmt"

	"github.com/nabla-containers/runlxc/libcontainer"
	"github.com/nabla-containers/runlxc/libcontainer/configs"
	ll "github.com/nabla-containers/runlxc/llif"
)

// maxInitArgs is the most arguments BuildArgv puts in front of the
// caller's command: the helper, --quiet, --name N --lxcpath P,
// --logpriority L and the "--" separator.
const maxInitArgs = 1 + 1 + 4 + 2 + 1

// LaunchRequest is the command to run and how to run it.
type LaunchRequest struct {
	Argv  []string
	Quiet bool
}

// needsInit reports whether the container has to be set up by lxc-init.
// It also decides whether lxc-init gets the container's identity and log
// settings, so the two can never disagree.
func needsInit(conf *configs.Config) bool {
	return conf.Rootfs == ""
}

// BuildArgv returns the argument vector to exec for req. In supervised
// mode it is lxc-init followed by its flags, "--" and req.Argv. Otherwise
// it is a copy of req.Argv.
func BuildArgv(in *ll.StartInput, req LaunchRequest, r *Resolver) ([]string, error) {
	if len(req.Argv) == 0 {
		return nil, libcontainer.NewError(fmt.Errorf("no command to execute"), libcontainer.ConfigInvalid)
	}

	if !needsInit(in.Config) {
		return append([]string(nil), req.Argv...), nil
	}

	initPath, err := r.Resolve()
	if err != nil {
		return nil, err
	}

	argv := make([]string, 0, maxInitArgs+len(req.Argv))
	argv = append(argv, initPath)
	if req.Quiet {
		argv = append(argv, "--quiet")
	}
	argv = append(argv, "--name", in.Name, "--lxcpath", in.LxcPath)
	if in.Log != nil && in.Log.HasValidLevel() {
		argv = append(argv, "--logpriority", in.Log.Priority().String())
	}
	argv = append(argv, "--")
	return append(argv, req.Argv...), nil
}
