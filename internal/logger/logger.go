/**
# Copyright (c) 2024, NVIDIA CORPORATION.  All rights reserved.
#
# Licensed under the Apache License, Version 2.0 (the "License");
# you may not use this file except in compliance with the License.
# You may obtain a copy of the License at
#
#     http://www.apache.org/licenses/LICENSE-2.0
#
# Unless required by applicable law or agreed to in writing, software
# distributed under the License is distributed on an "AS IS" BASIS,
# WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
# See the License for the specific language governing permissions and
# limitations under the License.
**/

// Package logger provides the logging interface shared by every package in
// this module. It wraps logrus so that the core never depends on a
// package-level logger singleton: every constructor takes an Interface.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Interface is the logging surface consumed across the module.
type Interface interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type logrusLogger struct {
	*logrus.Logger
}

// New creates a default logger that writes to stderr at the info level.
func New() Interface {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	return &logrusLogger{l}
}

// NewDebugFile creates a logger writing to path in addition to stderr, for
// NVC_DEBUG_FILE. An empty path behaves like New.
func NewDebugFile(path string) (Interface, func() error, error) {
	l := logrus.New()
	if path == "" {
		l.SetOutput(os.Stderr)
		return &logrusLogger{l}, func() error { return nil }, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}
	l.SetOutput(io.MultiWriter(os.Stderr, f))
	l.SetLevel(logrus.DebugLevel)
	return &logrusLogger{l}, f.Close, nil
}

func (l *logrusLogger) Warningf(format string, args ...interface{}) {
	l.Logger.Warnf(format, args...)
}
