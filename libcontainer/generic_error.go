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

package libcontainer

import (
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/pkg/errors"
)

type syncType uint8

const (
	procReady syncType = iota
	procError
)

// syncT is sent by the init process over the init pipe when it cannot
// reach exec. A successful exec closes the pipe instead.
type syncT struct {
	Type    syncType  `json:"type"`
	Code    ErrorCode `json:"code,omitempty"`
	Message string    `json:"message,omitempty"`
}

var errorTemplate = template.Must(template.New("error").Parse(`Timestamp: {{.Timestamp}}
Code: {{.ECode}}
{{if .Message }}
Message: {{.Message}}
{{end}}
{{if .Err }}Stack:{{printf "%+v" .Err}}{{end}}
`))

// NewError returns err as a coded Error. Errors that already carry a code
// keep it.
func NewError(err error, c ErrorCode) Error {
	return newGenericError(err, c)
}

// NewSystemErrorWithCause returns a SystemError describing what was being
// attempted when err happened.
func NewSystemErrorWithCause(err error, cause string) Error {
	return createSystemError(err, cause)
}

// CodeOf returns the code of the first coded error in err's cause chain.
func CodeOf(err error) (ErrorCode, bool) {
	if err == nil {
		return 0, false
	}
	if le, ok := errors.Cause(err).(Error); ok {
		return le.Code(), true
	}
	return 0, false
}

func newGenericError(err error, c ErrorCode) Error {
	if le, ok := errors.Cause(err).(Error); ok {
		return le
	}
	gerr := &genericError{
		Timestamp: time.Now(),
		Err:       errors.WithStack(err),
		ECode:     c,
	}
	if err != nil {
		gerr.Message = err.Error()
	}
	return gerr
}

func newSystemErrorWithCausef(err error, cause string, v ...interface{}) Error {
	return createSystemError(err, fmt.Sprintf(cause, v...))
}

func newSystemErrorWithCause(err error, cause string) Error {
	return createSystemError(err, cause)
}

func createSystemError(err error, cause string) Error {
	gerr := &genericError{
		Timestamp: time.Now(),
		Err:       errors.WithStack(err),
		ECode:     SystemError,
		Cause:     cause,
	}
	if err != nil {
		gerr.Message = err.Error()
	}
	return gerr
}

type genericError struct {
	Timestamp time.Time
	ECode     ErrorCode
	Err       error `json:"-"`
	Cause     string
	Message   string
}

func (e *genericError) Error() string {
	if e.Cause == "" {
		return e.Message
	}
	return fmt.Sprintf("%s caused %q", e.Cause, e.Message)
}

func (e *genericError) Code() ErrorCode {
	return e.ECode
}

func (e *genericError) Unwrap() error {
	return e.Err
}

func (e *genericError) Detail(w io.Writer) error {
	return errorTemplate.Execute(w, e)
}
