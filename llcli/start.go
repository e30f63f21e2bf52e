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

	"github.com/nabla-containers/runlxc/libcontainer"
	llstart "github.com/nabla-containers/runlxc/llmodules/start"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

func newStartCmd(strFn func(string) string) cli.Command {
	return cli.Command{
		Name:  "start",
		Usage: "start a system container",
		ArgsUsage: strFn(`-n <name> [options]

Where "<name>" is the name of the container.

EXAMPLE:

       # {{name}} start -n c1 -s lxc.init.cmd=/sbin/my-init`),
		Description: `The start command runs the container's init command (lxc.init.cmd,
/sbin/init when unset) as its init process and waits for it.`,
		Flags: containerFlags(),
		Action: func(context *cli.Context) error {
			status, err := startContainer(context)
			if err != nil {
				return err
			}
			os.Exit(status)
			return nil
		},
	}
}

func startContainer(context *cli.Context) (int, error) {
	o := launchOptionsFrom(context)
	if o.name == "" {
		return -1, errEmptyName
	}
	conf, err := loadConfig(o)
	if err != nil {
		return -1, err
	}
	log, err := newLogger(logrus.StandardLogger(), "lxc_start", conf, o.quiet)
	if err != nil {
		return -1, err
	}
	if err := libcontainer.CheckInherited(conf, -1, log); err != nil {
		return -1, err
	}
	factory, err := loadFactory(context, log, o.childLogPath(context, conf))
	if err != nil {
		return -1, err
	}
	return factory.Start(o.name, conf, llstart.New(), o.lxcpath)
}
