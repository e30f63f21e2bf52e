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

package llcli

import (
	"encoding/json"
	"time"

	"github.com/nabla-containers/runlxc/libcontainer"
	"github.com/nabla-containers/runlxc/libcontainer/logs"
	"github.com/opencontainers/runtime-spec/specs-go"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

func newStateCmd() cli.Command {
	return cli.Command{
		Name:  "state",
		Usage: "output the state of a container",
		ArgsUsage: `-n <name>

Where "<name>" is the name of the container.`,
		Description: `The state command outputs the last recorded state of a container.`,
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "name, n",
				Usage: "name of the container",
			},
		},
		Action: func(context *cli.Context) error {
			name := context.String("name")
			if name == "" {
				name = context.Args().First()
			}
			if name == "" {
				return errEmptyName
			}
			factory, err := loadFactory(context, logs.New(logrus.StandardLogger(), "lxc_state"), "")
			if err != nil {
				return err
			}
			state, err := factory.Load(name, context.GlobalString("lxcpath"))
			if err != nil {
				return err
			}

			cs := containerState{
				Version:        specs.Version,
				ID:             state.BaseState.ID,
				InitProcessPid: state.BaseState.InitProcessPid,
				Status:         state.Status.String(),
				Strategy:       state.Strategy,
				Rootfs:         state.BaseState.Config.Rootfs,
				Created:        state.BaseState.Created,
			}
			if state.Status == libcontainer.Stopped {
				cs.ExitStatus = &state.ExitStatus
			}
			data, err := json.MarshalIndent(cs, "", "  ")
			if err != nil {
				return err
			}
			_, err = context.App.Writer.Write(append(data, '\n'))
			return err
		},
	}
}

// containerState represents the platform agnostic pieces relating to a
// container's status and state
type containerState struct {
	// Version is the OCI version of the runtime
	Version string `json:"ociVersion"`
	// ID is the container name
	ID string `json:"id"`
	// InitProcessPid is the init process id in the parent namespace
	InitProcessPid int `json:"pid"`
	// Status is the current status of the container, RUNNING or STOPPED
	Status string `json:"status"`
	// Strategy is the start strategy the container was started with
	Strategy string `json:"strategy"`
	// Rootfs is a path to a directory containing the container's root filesystem.
	Rootfs string `json:"rootfs,omitempty"`
	// Created is the unix timestamp for the creation time of the container in UTC
	Created time.Time `json:"created"`
	// ExitStatus is the init process' exit status once stopped
	ExitStatus *int `json:"exit_status,omitempty"`
}
