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
	"fmt"
	"os"

	llexec "github.com/nabla-containers/runlxc/llmodules/execute"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

func newExecuteCmd(strFn func(string) string) cli.Command {
	return cli.Command{
		Name:  "execute",
		Usage: "run a command in a container",
		ArgsUsage: strFn(`-n <name> [options] [--] <command> [args...]

Where "<name>" is the name of the container and "<command>" is what it runs.
Options must come before the command; use "--" when the command itself
starts with a dash.

EXAMPLE:

       # {{name}} execute -n c1 -s lxc.environment=FOO=bar -- /bin/sh -c 'echo $FOO'`),
		Description: `The execute command runs the command as the only application of the
container and waits for it. It exits with the command's exit status.`,
		Flags:          containerFlags(),
		SkipArgReorder: true,
		Action: func(context *cli.Context) error {
			status, err := executeContainer(context)
			if err != nil {
				return err
			}
			// exit with the container's exit status so any external supervisor is
			// notified of the exit with the correct exit status.
			os.Exit(status)
			return nil
		},
	}
}

func executeContainer(context *cli.Context) (int, error) {
	o := launchOptionsFrom(context)
	if o.name == "" {
		return -1, errEmptyName
	}
	argv := []string(context.Args())
	if len(argv) == 0 {
		return -1, fmt.Errorf("missing command to execute")
	}

	conf, err := loadConfig(o)
	if err != nil {
		return -1, err
	}
	log, err := newLogger(logrus.StandardLogger(), "lxc_execute", conf, o.quiet)
	if err != nil {
		return -1, err
	}
	factory, err := loadFactory(context, log, o.childLogPath(context, conf))
	if err != nil {
		return -1, err
	}
	return llexec.Launch(factory, log, o.name, argv, o.quiet, conf, o.lxcpath)
}
