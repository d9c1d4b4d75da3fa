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

// Package ncerror implements the structured error model shared by every
// component (C11): a code distinguishing broad failure classes plus a
// single lowercase, single-line message.
package ncerror

import (
	"fmt"
	"strings"
)

// Code classifies the kind of failure. It is distinct from a raw errno: it
// exists so callers can branch on a small, stable set of cases rather than
// platform-specific numbers.
type Code int

const (
	// Invalid indicates a bad argument, unparsable option string, or a
	// path_resolve escape attempt.
	Invalid Code = iota
	// Missing indicates a required file, device, or process is absent.
	Missing
	// Permission indicates a lack of capability or uid to perform an
	// operation.
	Permission
	// IO indicates a read/write/mount failure at the OS boundary.
	IO
	// Parse indicates malformed procfs/cache/ELF/JSON input.
	Parse
	// Driver indicates a vendor-library error.
	Driver
	// RPC indicates a transport failure between parent and helper.
	RPC
	// Protocol indicates the child exited unexpectedly, by signal, or
	// timed out.
	Protocol
	// Validation indicates the requirement DSL was not satisfied.
	Validation
)

func (c Code) String() string {
	switch c {
	case Invalid:
		return "invalid"
	case Missing:
		return "missing"
	case Permission:
		return "permission"
	case IO:
		return "io"
	case Parse:
		return "parse"
	case Driver:
		return "driver"
	case RPC:
		return "rpc"
	case Protocol:
		return "protocol"
	case Validation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error is the structured error type returned by every public operation.
type Error struct {
	Code    Code
	Message string
}

// New builds an Error whose message is "<phrase>: <reason>", lowercased and
// collapsed onto a single line.
func New(code Code, phrase string, reason interface{}) *Error {
	msg := phrase
	if reason != nil {
		msg = fmt.Sprintf("%s: %v", phrase, reason)
	}
	return &Error{
		Code:    code,
		Message: oneLine(strings.ToLower(msg)),
	}
}

func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.Join(strings.Fields(s), " ")
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// FromErrno wraps an OS-level error (typically from golang.org/x/sys/unix or
// the os package) produced while performing the operation named by phrase.
func FromErrno(phrase string, err error) *Error {
	if err == nil {
		return nil
	}
	return New(IO, phrase, err)
}

// FromELF wraps a malformed-ELF error surfaced by internal/elf.
func FromELF(phrase string, err error) *Error {
	if err == nil {
		return nil
	}
	return New(Parse, phrase, err)
}

// FromVendor wraps an error string returned by a dlopen'd vendor library
// (e.g. NVML) inside the RPC child.
func FromVendor(phrase string, reason string) *Error {
	return New(Driver, "driver error: "+phrase, reason)
}

// FromRPC wraps a transport-level failure talking to the driver RPC helper.
func FromRPC(phrase string, err error) *Error {
	if err == nil {
		return nil
	}
	return New(RPC, phrase, err)
}

// FromValidation wraps a requirement-DSL failure, attaching the failing atom.
func FromValidation(atom string) *Error {
	return New(Validation, "unsatisfied condition", atom)
}
