package logs

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(buf *bytes.Buffer) *Logger {
	l := logrus.New()
	l.Out = buf
	l.Formatter = &logrus.TextFormatter{DisableTimestamp: true, DisableColors: true}
	return New(l, "lxc_start")
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in     string
		expect Priority
	}{
		{"WARN", Warn},
		{"warn", Warn},
		{"Warning", Warn},
		{" notice ", Notice},
		{"crit", Crit},
		{"CRITICAL", Crit},
		{"0", Trace},
		{"8", Fatal},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := ParsePriority(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.expect, p)
		})
	}

	for _, bad := range []string{"", "LOUD", "9", "-1"} {
		_, err := ParsePriority(bad)
		assert.Error(t, err, "priority %q", bad)
	}
}

func TestPriorityString(t *testing.T) {
	assert.Equal(t, "WARN", Warn.String())
	assert.Equal(t, "NOTICE", Notice.String())
	assert.Equal(t, "FATAL", Fatal.String())
	assert.Equal(t, "NOTSET", Priority(42).String())

	for p := Trace; p <= Fatal; p++ {
		back, err := ParsePriority(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, back)
	}
}

func TestValidLevel(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)
	assert.False(t, l.HasValidLevel())

	l.SetPriority(Warn)
	assert.True(t, l.HasValidLevel())
	assert.Equal(t, Warn, l.Priority())

	child := l.Channel("lxc_execute")
	assert.True(t, child.HasValidLevel())
	assert.Equal(t, Warn, child.Priority())
}

func TestChannelAndFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)
	l.SetPriority(Warn)
	c := l.Channel("lxc_execute")

	c.Noticef("dropped")
	assert.Empty(t, buf.String())

	c.Warnf("inherited fd %d", 7)
	assert.Contains(t, buf.String(), "channel=lxc_execute")
	assert.Contains(t, buf.String(), "inherited fd 7")

	buf.Reset()
	c.SysErrorf(errors.New("permission denied"), "failed to exec %s", "/sbin/lxc-init")
	assert.Contains(t, buf.String(), "failed to exec /sbin/lxc-init")
	assert.Contains(t, buf.String(), "permission denied")
}

func TestNoticeCarriesPriority(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)
	l.SetPriority(Notice)
	l.Noticef("'%s' started with pid '%d'", "/bin/sh", 42)
	assert.Contains(t, buf.String(), "priority=NOTICE")
	assert.Contains(t, buf.String(), "started with pid '42'")
}
