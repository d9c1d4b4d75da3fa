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

// Package elf inspects shared objects for the two facts the linker-cache
// picker needs: their DT_NEEDED dependency list and their GNU ABI-tag note
// (C3). Grounded on original_source/src/elftool.c; backed by the standard
// library's debug/elf rather than a third-party parser (see SPEC_FULL.md's
// DOMAIN STACK section for why).
package elf

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"fmt"
)

// Object is a parsed-once view of a shared object's dynamic and note
// sections.
type Object struct {
	needed []string
	abi    *abiTag
}

type abiTag struct {
	os                   uint32
	major, minor, subver uint32
}

const (
	noteTypeGNUABITag = 1
	gnuABITagOSLinux  = 0
)

// Open parses the ELF file at path, extracting DT_NEEDED and the ABI-tag
// note. It never fails on sections being absent; it fails only on a
// genuinely malformed ELF container.
func Open(path string) (*Object, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("malformed elf file: %w", err)
	}
	defer f.Close()

	needed, err := f.DynString(elf.DT_NEEDED)
	if err != nil && err != elf.ErrNoSymbols {
		// A missing .dynamic section is not a parse error: static
		// binaries and some libraries have none.
		needed = nil
	}

	o := &Object{needed: needed}
	o.abi = readABITag(f)
	return o, nil
}

func readABITag(f *elf.File) *abiTag {
	sec := f.Section(".note.ABI-tag")
	if sec == nil {
		return nil
	}
	data, err := sec.Data()
	if err != nil {
		return nil
	}
	return parseABINote(data)
}

// parseABINote decodes a GNU-style ELF note: namesz, descsz, type, name
// (padded to 4 bytes), desc (padded to 4 bytes). The GNU ABI-tag desc is
// four uint32s: OS, major, minor, subminor.
func parseABINote(data []byte) *abiTag {
	r := bytes.NewReader(data)
	var namesz, descsz, typ uint32
	if err := binary.Read(r, binary.LittleEndian, &namesz); err != nil {
		return nil
	}
	if err := binary.Read(r, binary.LittleEndian, &descsz); err != nil {
		return nil
	}
	if err := binary.Read(r, binary.LittleEndian, &typ); err != nil {
		return nil
	}
	if typ != noteTypeGNUABITag {
		return nil
	}

	namePad := pad4(namesz)
	name := make([]byte, namePad)
	if _, err := r.Read(name); err != nil {
		return nil
	}
	if string(bytes.TrimRight(name[:min(namesz, uint32(len(name)))], "\x00")) != "GNU" {
		return nil
	}

	if descsz < 16 {
		return nil
	}
	desc := make([]uint32, 4)
	for i := range desc {
		if err := binary.Read(r, binary.LittleEndian, &desc[i]); err != nil {
			return nil
		}
	}
	return &abiTag{os: desc[0], major: desc[1], minor: desc[2], subver: desc[3]}
}

func pad4(n uint32) uint32 {
	if n%4 == 0 {
		return n
	}
	return n + (4 - n%4)
}

func min(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}

// HasDependency returns true if any DT_NEEDED entry begins with lib.
func (o *Object) HasDependency(lib string) bool {
	if o == nil {
		return false
	}
	for _, n := range o.needed {
		if len(n) >= len(lib) && n[:len(lib)] == lib {
			return true
		}
	}
	return false
}

// HasABI returns true iff the object carries a GNU ABI-tag note for Linux
// with descriptor words (major, minor, subminor) equal to (a, b, c).
func (o *Object) HasABI(a, b, c int) bool {
	if o == nil || o.abi == nil {
		return false
	}
	return o.abi.os == gnuABITagOSLinux &&
		o.abi.major == uint32(a) && o.abi.minor == uint32(b) && o.abi.subver == uint32(c)
}
