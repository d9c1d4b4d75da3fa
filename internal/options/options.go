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

// Package options parses the option strings described in spec.md §6 into
// typed flag sets. Tokenization itself is a trivial whitespace split (out of
// scope per spec.md §1); this package is what turns tokens into the bitmasks
// every other component consumes.
package options

import (
	"fmt"
	"strings"
)

// LibraryOpts is the library-scoped option bitmask.
type LibraryOpts uint32

const (
	OptLoadKmods LibraryOpts = 1 << iota
)

// ParseLibraryOpts parses library option tokens (e.g. "load-kmods").
func ParseLibraryOpts(s string) (LibraryOpts, error) {
	var opts LibraryOpts
	for _, tok := range fields(s) {
		switch tok {
		case "load-kmods":
			opts |= OptLoadKmods
		default:
			return 0, fmt.Errorf("unknown library option: %v", tok)
		}
	}
	return opts, nil
}

// DriverOpts is the driver-scoped option bitmask.
type DriverOpts uint32

const (
	OptNoGLVND DriverOpts = 1 << iota
	OptNoUVM
	OptNoModeset
	OptNoMPS
	OptNoPersistenced
)

// ParseDriverOpts parses driver option tokens.
func ParseDriverOpts(s string) (DriverOpts, error) {
	var opts DriverOpts
	for _, tok := range fields(s) {
		switch tok {
		case "no-glvnd":
			opts |= OptNoGLVND
		case "no-uvm":
			opts |= OptNoUVM
		case "no-modeset":
			opts |= OptNoModeset
		case "no-mps":
			opts |= OptNoMPS
		case "no-persistenced":
			opts |= OptNoPersistenced
		default:
			return 0, fmt.Errorf("unknown driver option: %v", tok)
		}
	}
	return opts, nil
}

// ContainerOpts is the container-scoped capability flag set. Deliberately a
// wide (uint64) bitmask with one bit per named flag: spec.md §9 flags the
// original's reuse of a 16-bit field (where the compat32 bit number differs
// per architecture) as a bug-prone pattern. This type never reuses bits.
type ContainerOpts uint64

const (
	OptSupervised ContainerOpts = 1 << iota
	OptStandalone
	OptNoCgroups
	OptNoDevbind
	OptNoCntlibs
	OptUtility
	OptCompute
	OptVideo
	OptGraphics
	OptDisplay
	OptCompat32
)

var containerOptNames = []struct {
	name string
	bit  ContainerOpts
}{
	{"supervised", OptSupervised},
	{"standalone", OptStandalone},
	{"no-cgroups", OptNoCgroups},
	{"no-devbind", OptNoDevbind},
	{"no-cntlibs", OptNoCntlibs},
	{"utility", OptUtility},
	{"compute", OptCompute},
	{"video", OptVideo},
	{"graphics", OptGraphics},
	{"display", OptDisplay},
	{"compat32", OptCompat32},
}

// DefaultContainerOpts is "standalone no-cgroups no-devbind utility", per
// spec.md §6.
const DefaultContainerOpts = "standalone no-cgroups no-devbind utility"

// ParseContainerOpts parses container option tokens. display implies
// graphics. Exactly one of supervised/standalone must end up set.
func ParseContainerOpts(s string) (ContainerOpts, error) {
	var opts ContainerOpts
	for _, tok := range fields(s) {
		var matched bool
		for _, c := range containerOptNames {
			if c.name == tok {
				opts |= c.bit
				matched = true
				break
			}
		}
		if !matched {
			return 0, fmt.Errorf("unknown container option: %v", tok)
		}
	}
	if opts&OptDisplay != 0 {
		opts |= OptGraphics
	}
	if opts.has(OptSupervised) == opts.has(OptStandalone) {
		return 0, fmt.Errorf("exactly one of supervised or standalone must be specified")
	}
	return opts, nil
}

func (o ContainerOpts) has(bit ContainerOpts) bool {
	return o&bit != 0
}

// FormatContainerOpts renders a ContainerOpts back to its canonical token
// form. ParseContainerOpts(FormatContainerOpts(o)) == o for any valid o,
// which is the round-trip law required by spec.md §8 (display's implied
// graphics bit is included on both sides, so the law holds even though
// display implies graphics one-way).
func FormatContainerOpts(o ContainerOpts) string {
	var toks []string
	for _, c := range containerOptNames {
		if o.has(c.bit) {
			toks = append(toks, c.name)
		}
	}
	return strings.Join(toks, " ")
}

func fields(s string) []string {
	return strings.Fields(s)
}
