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

package libcontainer

import (
	"github.com/nabla-containers/runlxc/libcontainer/configs"
	ll "github.com/nabla-containers/runlxc/llif"
)

// Factory drives the start sequence of containers.
type Factory interface {
	// Start runs the container named name, stored under lxcpath, with the
	// given start strategy. It returns once the container's init process
	// has exited, with its exit status.
	//
	// The strategy's StartFunc runs in a child init process; PreStartFunc
	// and PostStartFunc run in the calling process.
	//
	// errors:
	// InvalidIdFormat - name has incorrect format
	// IdInUse - a container with that name is already running
	// NoProcessOps - the strategy type was not registered with the factory
	// any code reported by the strategy's StartFunc
	// SystemError - System error
	Start(name string, config *configs.Config, ops ll.StartOps, lxcpath string) (int, error)

	// Load returns the last recorded state of a container.
	//
	// errors:
	// ContainerNotExists - no state has been recorded
	// SystemError - System error
	Load(name, lxcpath string) (*State, error)

	// Destroy forgets a stopped container. With force set a running
	// container's init process is killed first.
	//
	// errors:
	// ContainerNotExists - no state has been recorded
	// IdInUse - the container is running and force is not set
	// SystemError - System error
	Destroy(name, lxcpath string, force bool) error

	// StartInitialization is an internal API used during the reexec of the
	// runtime as the container's init process. It only returns on failure.
	//
	// Errors:
	// Pipe connection error
	// System error
	StartInitialization() error

	// Type returns info string about factory type
	Type() string
}
