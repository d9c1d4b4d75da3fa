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

// Package dsl evaluates the requirement expressions used to gate container
// construction (C10): whitespace-separated required clauses, each a
// comma-separated list of acceptable alternatives, over cuda/driver/arch/
// brand facts (spec.md §8 scenario 3). Grounded on original_source/src/dsl.c
// and src/cli/dsl.c for the atom grammar and version comparator; the
// clause/atom AND/OR grouping itself follows spec.md's literal scenario
// rather than a verbatim translation of dsl.c's strsep nesting.
package dsl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/NVIDIA/libnvidia-container/internal/ncerror"
)

// Facts holds the global (driver/cuda) and optional per-device (arch/brand)
// values an expression is evaluated against.
type Facts struct {
	Driver string
	CUDA   string
	Device *DeviceFacts
}

// DeviceFacts holds the per-device facts. When no GPU is in scope, Device
// is nil and arch/brand atoms default to true.
type DeviceFacts struct {
	Arch  string
	Brand string
}

type op int

const (
	opEQ op = iota
	opNE
	opLT
	opLE
	opGT
	opGE
)

type atom struct {
	name  string
	op    op
	value string
	raw   string
}

// Evaluate parses and evaluates expr against facts. Space-separated clauses
// are required (AND): every clause must be satisfied. Within a clause,
// comma-separated atoms are alternatives (OR): any one satisfying atom is
// enough. It returns nil on success, or a *ncerror.Error wrapping the first
// unsatisfied clause's last-tried atom (spec.md §8 scenario 3).
func Evaluate(expr string, facts Facts) error {
	clauses := strings.Fields(expr)
	if len(clauses) == 0 {
		return nil
	}

	for _, clause := range clauses {
		ok, failedAtom, err := evalClause(clause, facts)
		if err != nil {
			return ncerror.New(ncerror.Invalid, "requirement error", err)
		}
		if !ok {
			return ncerror.FromValidation(failedAtom)
		}
	}
	return nil
}

func evalClause(clause string, facts Facts) (bool, string, error) {
	var lastAtom string
	for _, raw := range strings.Split(clause, ",") {
		a, err := parseAtom(raw)
		if err != nil {
			return false, "", err
		}
		lastAtom = a.raw
		ok, err := evalAtom(a, facts)
		if err != nil {
			return false, "", err
		}
		if ok {
			return true, "", nil
		}
	}
	return false, lastAtom, nil
}

var ops = []struct {
	tok string
	op  op
}{
	{"!=", opNE},
	{"<=", opLE},
	{">=", opGE},
	{"=", opEQ},
	{"<", opLT},
	{">", opGT},
}

func parseAtom(s string) (atom, error) {
	for _, o := range ops {
		if idx := strings.Index(s, o.tok); idx > 0 {
			name := strings.TrimSpace(s[:idx])
			value := strings.TrimSpace(s[idx+len(o.tok):])
			return atom{
				name:  name,
				op:    o.op,
				value: value,
				raw:   fmt.Sprintf("%s %s %s", name, o.tok, value),
			}, nil
		}
	}
	return atom{}, fmt.Errorf("malformed requirement atom: %v", s)
}

func evalAtom(a atom, facts Facts) (bool, error) {
	switch a.name {
	case "cuda":
		return evalVersion(facts.CUDA, a.op, a.value)
	case "driver":
		return evalVersion(facts.Driver, a.op, a.value)
	case "arch":
		if facts.Device == nil {
			return true, nil
		}
		return evalString(facts.Device.Arch, a.op, a.value)
	case "brand":
		if facts.Device == nil {
			return true, nil
		}
		return evalString(facts.Device.Brand, a.op, a.value)
	default:
		return false, fmt.Errorf("unknown requirement name: %v", a.name)
	}
}

func evalString(have string, o op, want string) (bool, error) {
	eq := strings.EqualFold(have, want)
	switch o {
	case opEQ:
		return eq, nil
	case opNE:
		return !eq, nil
	default:
		return false, fmt.Errorf("operator not supported for string comparison")
	}
}

// Compare returns -1, 0, or 1 as a is less than, equal to, or greater than
// b, comparing "[0-9.]+" version strings component by component, then
// treating any remaining components on the longer side against zero.
func Compare(a, b string) (int, error) {
	pa, err := splitVersion(a)
	if err != nil {
		return 0, err
	}
	pb, err := splitVersion(b)
	if err != nil {
		return 0, err
	}

	n := len(pa)
	if len(pb) > n {
		n = len(pb)
	}
	for i := 0; i < n; i++ {
		var va, vb int
		if i < len(pa) {
			va = pa[i]
		}
		if i < len(pb) {
			vb = pb[i]
		}
		if va != vb {
			if va < vb {
				return -1, nil
			}
			return 1, nil
		}
	}
	return 0, nil
}

func splitVersion(v string) ([]int, error) {
	if v == "" {
		return nil, fmt.Errorf("empty version")
	}
	parts := strings.Split(v, ".")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("malformed version %q: %w", v, err)
		}
		out[i] = n
	}
	return out, nil
}

func evalVersion(have string, o op, want string) (bool, error) {
	cmp, err := Compare(have, want)
	if err != nil {
		return false, err
	}
	switch o {
	case opEQ:
		return cmp == 0, nil
	case opNE:
		return cmp != 0, nil
	case opLT:
		return cmp < 0, nil
	case opLE:
		return cmp <= 0, nil
	case opGT:
		return cmp > 0, nil
	case opGE:
		return cmp >= 0, nil
	default:
		return false, fmt.Errorf("unknown operator")
	}
}
