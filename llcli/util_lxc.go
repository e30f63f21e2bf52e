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
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nabla-containers/runlxc/libcontainer"
	"github.com/nabla-containers/runlxc/libcontainer/configs"
	"github.com/nabla-containers/runlxc/libcontainer/logs"
	ll "github.com/nabla-containers/runlxc/llif"
	llexec "github.com/nabla-containers/runlxc/llmodules/execute"
	llstart "github.com/nabla-containers/runlxc/llmodules/start"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

var (
	errEmptyName = errors.New("container name cannot be empty")
)

// containerFlags are the lxc-start style flags of commands that start a
// container.
func containerFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "name, n",
			Usage: "name of the container",
		},
		cli.StringFlag{
			Name:  "rcfile, f",
			Usage: "load configuration file (default: <lxcpath>/<name>/config if it exists)",
		},
		cli.StringSliceFlag{
			Name:  "define, s",
			Usage: "assign VAL to configuration variable KEY (KEY=VAL), may be repeated",
		},
		cli.BoolFlag{
			Name:  "quiet, q",
			Usage: "don't produce any output",
		},
		cli.StringFlag{
			Name:  "logpriority, l",
			Usage: "log priority (TRACE, DEBUG, INFO, NOTICE, WARN, ERROR, CRIT, ALERT, FATAL)",
		},
		cli.StringFlag{
			Name:  "logfile, o",
			Usage: "file to write the container's log to",
		},
	}
}

// launchOptions is what the containerFlags were set to.
type launchOptions struct {
	name        string
	lxcpath     string
	rcfile      string
	defines     []string
	quiet       bool
	logPriority string
	logFile     string
}

func launchOptionsFrom(context *cli.Context) launchOptions {
	return launchOptions{
		name:        context.String("name"),
		lxcpath:     context.GlobalString("lxcpath"),
		rcfile:      context.String("rcfile"),
		defines:     context.StringSlice("define"),
		quiet:       context.Bool("quiet"),
		logPriority: context.String("logpriority"),
		logFile:     context.String("logfile"),
	}
}

// loadConfig reads the container's configuration. Defines are applied on
// top of the file, and the log flags on top of both.
func loadConfig(o launchOptions) (*configs.Config, error) {
	path := o.rcfile
	if path == "" && o.name != "" {
		def := filepath.Join(o.lxcpath, o.name, "config")
		if _, err := os.Stat(def); err == nil {
			path = def
		}
	}

	conf := &configs.Config{}
	if path != "" {
		var err error
		if conf, err = configs.Load(path); err != nil {
			return nil, libcontainer.NewError(err, libcontainer.ConfigInvalid)
		}
	}
	for _, d := range o.defines {
		key, value, err := configs.SplitKeyValue(d)
		if err == nil {
			err = conf.Set(key, value)
		}
		if err != nil {
			return nil, libcontainer.NewError(pkgerrors.Wrapf(err, "--define %s", d), libcontainer.ConfigInvalid)
		}
	}
	if o.logPriority != "" {
		conf.LogLevel = o.logPriority
	}
	if o.logFile != "" {
		conf.LogFile = o.logFile
	}
	return conf, nil
}

// newLogger returns the channel logger for a container. Records go to the
// container's log file when it has one, and nowhere when quiet.
func newLogger(l *logrus.Logger, channel string, conf *configs.Config, quiet bool) (*logs.Logger, error) {
	if conf.LogFile != "" {
		f, err := os.OpenFile(conf.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "open log file")
		}
		l.SetOutput(f)
	} else if quiet {
		l.SetOutput(io.Discard)
	}

	log := logs.New(l, channel)
	if conf.LogLevel != "" {
		p, err := logs.ParsePriority(conf.LogLevel)
		if err != nil {
			return nil, libcontainer.NewError(err, libcontainer.ConfigInvalid)
		}
		log.SetPriority(p)
	}
	return log, nil
}

// childLogPath is where the init process should log to.
func (o launchOptions) childLogPath(context *cli.Context, conf *configs.Config) string {
	switch {
	case conf.LogFile != "":
		return conf.LogFile
	case o.quiet:
		return os.DevNull
	}
	return context.GlobalString("log")
}

// loadFactory returns the configured factory instance for starting
// containers. logPath is passed on to the reexec'd init process.
func loadFactory(context *cli.Context, log *logs.Logger, logPath string) (*libcontainer.LxcFactory, error) {
	args := []string{os.Args[0]}
	if context.GlobalBool("debug") {
		args = append(args, "--debug")
	}
	if logPath != "" {
		args = append(args, "--log", logPath)
	}
	args = append(args, "--log-format", context.GlobalString("log-format"), "init")

	return libcontainer.New(log,
		libcontainer.InitArgs(args...),
		strategy(llexec.Factory),
		strategy(llstart.Factory),
	)
}

func strategy(fn func() ll.StartOps) func(*libcontainer.LxcFactory) error {
	return libcontainer.Strategy(fn().Type(), fn)
}

// fatal prints the error's details if it is a libcontainer specific error
// type then exits the program with an exit status of 1.
func fatal(err error) {
	// make sure the error is written to the logger
	logrus.Error(err)
	if lerr, ok := err.(libcontainer.Error); ok && logrus.GetLevel() >= logrus.DebugLevel {
		lerr.Detail(os.Stderr)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
