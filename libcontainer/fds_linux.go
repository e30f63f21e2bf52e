//go:build linux
// +build linux

package libcontainer

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/nabla-containers/runlxc/libcontainer/configs"
	"github.com/nabla-containers/runlxc/libcontainer/logs"
	"golang.org/x/sys/unix"
)

// CheckInherited looks for file descriptors that would leak into the
// container because they are not close-on-exec. fdToIgnore is skipped, pass
// -1 to skip nothing. With lxc.close_all_fds set, strays are marked
// close-on-exec instead of failing the start.
func CheckInherited(conf *configs.Config, fdToIgnore int, log *logs.Logger) error {
	fds, err := inheritedFds(fdToIgnore)
	if err != nil {
		return newSystemErrorWithCause(err, "listing inherited fds")
	}
	if len(fds) == 0 {
		return nil
	}
	if conf.CloseAllFds {
		for _, fd := range fds {
			unix.CloseOnExec(fd)
			log.Infof("closed inherited fd %d", fd)
		}
		return nil
	}
	for _, fd := range fds {
		log.Warnf("inherited fd %d", fd)
	}
	return newGenericError(fmt.Errorf("inherited fds %v, set lxc.close_all_fds to close them", fds), InheritedFds)
}

func inheritedFds(fdToIgnore int) ([]int, error) {
	d, err := os.Open("/proc/self/fd")
	if err != nil {
		return nil, err
	}
	defer d.Close()
	names, err := d.Readdirnames(-1)
	if err != nil {
		return nil, err
	}

	var fds []int
	for _, name := range names {
		fd, err := strconv.Atoi(name)
		if err != nil {
			continue
		}
		if fd < stdioFdCount || fd == fdToIgnore || uintptr(fd) == d.Fd() {
			continue
		}
		flags, err := unix.FcntlInt(uintptr(fd), unix.F_GETFD, 0)
		if err != nil {
			// closed since we listed it
			continue
		}
		if flags&unix.FD_CLOEXEC != 0 {
			continue
		}
		fds = append(fds, fd)
	}
	sort.Ints(fds)
	return fds, nil
}
