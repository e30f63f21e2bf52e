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
	"github.com/nabla-containers/runlxc/libcontainer/logs"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

func newDeleteCmd(strFn func(string) string) cli.Command {
	return cli.Command{
		Name:  "delete",
		Usage: "forget the recorded state of a stopped container",
		ArgsUsage: strFn(`-n <name>

Where "<name>" is the name of the container.

EXAMPLE:
For example, if the container "ubuntu01" was killed along with the runtime
that started it, the following removes its stale state:

       # {{name}} delete -n ubuntu01`),
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "name, n",
				Usage: "name of the container",
			},
			cli.BoolFlag{
				Name:  "force, f",
				Usage: "Forcibly deletes the container if it is still running (uses SIGKILL)",
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
			factory, err := loadFactory(context, logs.New(logrus.StandardLogger(), "lxc_destroy"), "")
			if err != nil {
				return err
			}
			return factory.Destroy(name, context.GlobalString("lxcpath"), context.Bool("force"))
		},
	}
}
