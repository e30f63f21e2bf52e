package configs

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	spec "github.com/opencontainers/runtime-spec/specs-go"
	"github.com/pkg/errors"
)

// Load reads an lxc style configuration file.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open config %s", path)
	}
	defer f.Close()

	c := &Config{}
	if err := c.Parse(f); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	return c, nil
}

// Parse reads "key = value" lines into c. Later keys override earlier ones,
// except for list keys (environment, hooks) which accumulate.
func (c *Config) Parse(r io.Reader) error {
	s := bufio.NewScanner(r)
	n := 0
	for s.Scan() {
		n++
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, err := SplitKeyValue(line)
		if err != nil {
			return errors.Wrapf(err, "line %d", n)
		}
		if err := c.Set(key, value); err != nil {
			return errors.Wrapf(err, "line %d", n)
		}
	}
	return s.Err()
}

// SplitKeyValue splits "key = value", as used both in config files and in
// --define arguments.
func SplitKeyValue(s string) (string, string, error) {
	i := strings.Index(s, "=")
	if i < 0 {
		return "", "", errors.Errorf("invalid configuration line %q", s)
	}
	key := strings.TrimSpace(s[:i])
	if key == "" {
		return "", "", errors.Errorf("empty key in %q", s)
	}
	return key, strings.TrimSpace(s[i+1:]), nil
}

// Set applies a single configuration key. Unknown lxc.* keys are ignored
// so that configs written for a full lxc still load here.
func (c *Config) Set(key, value string) error {
	if !strings.HasPrefix(key, "lxc.") {
		return errors.Errorf("unknown key %q", key)
	}
	switch key {
	case "lxc.rootfs", "lxc.rootfs.path":
		c.Rootfs = value
	case "lxc.loglevel", "lxc.log.level":
		c.LogLevel = value
	case "lxc.logfile", "lxc.log.file":
		c.LogFile = value
	case "lxc.close_all_fds":
		b, err := parseBool(value)
		if err != nil {
			return errors.Wrapf(err, "%s", key)
		}
		c.CloseAllFds = b
	case "lxc.init_cmd", "lxc.init.cmd":
		c.InitCmd = strings.Fields(value)
	case "lxc.environment":
		if value == "" {
			c.Environment = nil
			break
		}
		if !strings.Contains(value, "=") {
			value = value + "=" + os.Getenv(value)
		}
		c.Environment = append(c.Environment, value)
	case "lxc.hook.pre-start":
		h, err := parseHook(value)
		if err != nil {
			return errors.Wrapf(err, "%s", key)
		}
		c.hooks().Prestart = append(c.hooks().Prestart, h)
	case "lxc.hook.post-stop":
		h, err := parseHook(value)
		if err != nil {
			return errors.Wrapf(err, "%s", key)
		}
		c.hooks().Poststop = append(c.hooks().Poststop, h)
	}
	return nil
}

func (c *Config) hooks() *spec.Hooks {
	if c.Hooks == nil {
		c.Hooks = &spec.Hooks{}
	}
	return c.Hooks
}

// parseHook turns "/path/to/hook arg..." into a runtime-spec hook. Like
// execve, Args includes the program path.
func parseHook(value string) (spec.Hook, error) {
	args := strings.Fields(value)
	if len(args) == 0 {
		return spec.Hook{}, errors.New("empty hook command")
	}
	return spec.Hook{Path: args[0], Args: args}, nil
}

func parseBool(value string) (bool, error) {
	switch value {
	case "1":
		return true, nil
	case "0", "":
		return false, nil
	}
	return strconv.ParseBool(value)
}
