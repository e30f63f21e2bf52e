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
	"io"
	"os"
	"strings"

	"github.com/opencontainers/runtime-spec/specs-go"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

// version will be populated by the Makefile, read from
// VERSION file of the source code.
var version = ""

// gitCommit will be the hash that the binary was built from
// and will be populated by the Makefile
var gitCommit = ""

const (
	defaultLxcPath = "/var/lib/lxc"
	usage          = `LXC execute runtime

{{name}} runs applications in lxc containers. A container is a directory
under the lxc path (see --lxcpath) holding an lxc style "config" file.

To run a single command as the container's only application:

    # {{name}} execute -n <name> [-f config] [-s key=value] -- <command>

Unless the container has a rootfs configured, the command is started under
lxc-init, which sets the container up, reaps zombies and forwards signals.
The name you provide must be unique on your host.`
)

// Run runs the CLI of the runtime named runtimeName with os.Args.
func Run(runtimeName string) {
	app := newApp(runtimeName)

	// If the command returns an error, cli takes upon itself to print
	// the error on cli.ErrWriter and exit.
	// Use our own writer here to ensure the log gets sent to the right location.
	cli.ErrWriter = &FatalWriter{cli.ErrWriter}
	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}

func newApp(runtimeName string) *cli.App {
	app := cli.NewApp()
	app.Name = runtimeName

	strFn := createSubst(map[string]string{
		"name": app.Name,
	})

	app.Usage = strFn(usage)

	var v []string
	if version != "" {
		v = append(v, version)
	}
	if gitCommit != "" {
		v = append(v, fmt.Sprintf("commit: %s", gitCommit))
	}
	v = append(v, fmt.Sprintf("spec: %s", specs.Version))
	app.Version = strings.Join(v, "\n")

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "debug",
			Usage: "enable debug output for logging",
		},
		cli.StringFlag{
			Name:  "log",
			Usage: "set the log file path where internal debug information is written (default: stderr)",
		},
		cli.StringFlag{
			Name:  "log-format",
			Value: "text",
			Usage: "set the format used by logs ('text' (default), or 'json')",
		},
		cli.StringFlag{
			Name:   "lxcpath, P",
			Value:  defaultLxcPath,
			EnvVar: "LXC_LXCPATH",
			Usage:  "directory holding the containers",
		},
	}
	app.Commands = []cli.Command{
		newExecuteCmd(strFn),
		newStartCmd(strFn),
		newStateCmd(),
		newDeleteCmd(strFn),
		newInitCmd(),
	}
	app.Before = func(context *cli.Context) error {
		if context.GlobalBool("debug") {
			logrus.SetLevel(logrus.DebugLevel)
		}
		if path := context.GlobalString("log"); path != "" {
			f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND|os.O_SYNC, 0666)
			if err != nil {
				fmt.Fprintln(os.Stdout, err.Error())
				return err
			}
			logrus.SetOutput(f)
		}
		switch context.GlobalString("log-format") {
		case "text":
			// retain logrus's default.
		case "json":
			logrus.SetFormatter(new(logrus.JSONFormatter))
		default:
			return fmt.Errorf("unknown log-format %q", context.GlobalString("log-format"))
		}
		return nil
	}
	return app
}

// createSubst returns a func replacing {{key}} with its value in m.
func createSubst(m map[string]string) func(string) string {
	return func(s string) string {
		for k, v := range m {
			s = strings.Replace(s, "{{"+k+"}}", v, -1)
		}
		return s
	}
}

type FatalWriter struct {
	cliErrWriter io.Writer
}

func (f *FatalWriter) Write(p []byte) (n int, err error) {
	logrus.Error(string(p))
	return f.cliErrWriter.Write(p)
}
