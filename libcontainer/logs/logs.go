// Copyright (c) 2018, IBM
//
// Permission to use, copy, modify, and/or distribute this software for
// any purpose with or without fee is hereby granted, provided that the
// above copyright notice and this permission notice appear in all
// copies.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL
// WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED
// WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE
// AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL
// DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA
// OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER
// TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.

// Package logs provides the lxc flavoured logging used by the runtime. It
// keeps lxc's priority names and named channels on top of logrus.
package logs

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Priority is an lxc log priority.
type Priority int

const (
	Trace Priority = iota
	Debug
	Info
	Notice
	Warn
	Error
	Crit
	Alert
	Fatal
)

var priorityNames = [...]string{
	Trace:  "TRACE",
	Debug:  "DEBUG",
	Info:   "INFO",
	Notice: "NOTICE",
	Warn:   "WARN",
	Error:  "ERROR",
	Crit:   "CRIT",
	Alert:  "ALERT",
	Fatal:  "FATAL",
}

// String returns the canonical name of the priority, as understood by
// lxc-init's --logpriority flag.
func (p Priority) String() string {
	if p < Trace || p > Fatal {
		return "NOTSET"
	}
	return priorityNames[p]
}

// ParsePriority accepts either a priority name (case insensitive) or its
// numeric code.
func ParsePriority(s string) (Priority, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for p, n := range priorityNames {
		if n == name {
			return Priority(p), nil
		}
	}
	// lxc also accepts WARNING and CRITICAL spelled out
	switch name {
	case "WARNING":
		return Warn, nil
	case "CRITICAL":
		return Crit, nil
	}
	if n, err := strconv.Atoi(name); err == nil && n >= int(Trace) && n <= int(Fatal) {
		return Priority(n), nil
	}
	return 0, fmt.Errorf("invalid log priority %q", s)
}

func (p Priority) logrusLevel() logrus.Level {
	switch p {
	case Trace:
		return logrus.TraceLevel
	case Debug:
		return logrus.DebugLevel
	case Info, Notice:
		return logrus.InfoLevel
	case Warn:
		return logrus.WarnLevel
	default:
		return logrus.ErrorLevel
	}
}

// Logger emits records on a named channel. The priority is only "valid"
// once it has been explicitly set, mirroring lxc_log_has_valid_level.
type Logger struct {
	entry    *logrus.Entry
	priority Priority
	valid    bool
}

// New returns a logger for channel that writes through l.
func New(l *logrus.Logger, channel string) *Logger {
	return &Logger{
		entry:    logrus.NewEntry(l).WithField("channel", channel),
		priority: Error,
	}
}

// Channel derives a logger for a sub channel sharing the same output and
// priority.
func (l *Logger) Channel(name string) *Logger {
	return &Logger{
		entry:    l.entry.WithField("channel", name),
		priority: l.priority,
		valid:    l.valid,
	}
}

// SetPriority sets the threshold below which records are dropped.
func (l *Logger) SetPriority(p Priority) {
	l.priority = p
	l.valid = true
	l.entry.Logger.SetLevel(p.logrusLevel())
}

// HasValidLevel reports whether a priority has been configured.
func (l *Logger) HasValidLevel() bool {
	return l.valid
}

// Priority returns the configured priority.
func (l *Logger) Priority() Priority {
	return l.priority
}

// Entry exposes the underlying logrus entry for callers that need extra
// fields.
func (l *Logger) Entry() *logrus.Entry {
	return l.entry
}

func (l *Logger) enabled(p Priority) bool {
	return !l.valid || p >= l.priority
}

func (l *Logger) Tracef(format string, args ...interface{}) {
	if l.enabled(Trace) {
		l.entry.Tracef(format, args...)
	}
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	if l.enabled(Debug) {
		l.entry.Debugf(format, args...)
	}
}

func (l *Logger) Infof(format string, args ...interface{}) {
	if l.enabled(Info) {
		l.entry.Infof(format, args...)
	}
}

// Noticef logs at NOTICE, which logrus folds into info.
func (l *Logger) Noticef(format string, args ...interface{}) {
	if l.enabled(Notice) {
		l.entry.WithField("priority", Notice.String()).Infof(format, args...)
	}
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	if l.enabled(Warn) {
		l.entry.Warnf(format, args...)
	}
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

// SysErrorf logs a failed system call along with its error.
func (l *Logger) SysErrorf(err error, format string, args ...interface{}) {
	l.entry.WithField("errno", err.Error()).Errorf(format, args...)
}
