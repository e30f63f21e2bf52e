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
	"os"

	"github.com/nabla-containers/runlxc/libcontainer/logs"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

func newInitCmd() cli.Command {
	return cli.Command{
		Name:   "init",
		Usage:  `initialize the container's init process (do not call it outside of the runtime)`,
		Hidden: true,
		Action: func(context *cli.Context) error {
			factory, err := loadFactory(context, logs.New(logrus.StandardLogger(), "lxc_start"), "")
			if err != nil {
				return err
			}
			if err := factory.StartInitialization(); err != nil {
				// as the error is sent back to the parent there is no need to log
				// or write it to stderr because the parent process will handle this
				os.Exit(1)
			}
			panic("libcontainer: container init failed to exec")
		},
	}
}
