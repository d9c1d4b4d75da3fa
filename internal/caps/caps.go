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

// Package caps controls Linux capability sets, the bounding set, and
// uid/gid credential drops (C4). Grounded on original_source/src/nvc_container.c
// and the unix.CAP_* bit-test idiom used throughout apptainer's
// cmd/internal/cli/actions_linux.go.
package caps

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Set names one of the four capability sets a process carries.
type Set int

const (
	Permitted Set = iota
	Effective
	Inheritable
	Ambient
)

// lastCap returns the highest capability number the running kernel knows
// about, read from /proc/sys/kernel/cap_last_cap, falling back to
// unix.CAP_LAST_CAP if the kernel interface is unavailable.
func lastCap() int {
	last, err := readCapLastCap()
	if err != nil {
		return unix.CAP_LAST_CAP
	}
	return last
}

// SetCaps installs the given capability numbers into the named set for the
// calling thread/process. Setting the permitted set additionally restricts
// the effective set to the intersection of values and the current
// effective set, so effective is never raised beyond permitted as a side
// effect of this call.
func SetCaps(set Set, values []int) error {
	hdr := unix.CapUserHeader{Version: unix.LINUX_CAPABILITY_VERSION_3}
	var data [2]unix.CapUserData

	cur, err := getCapData(&hdr)
	if err != nil {
		return fmt.Errorf("capget: %w", err)
	}
	data = cur

	switch set {
	case Permitted:
		setBits(&data, 0, values)
		intersectEffectiveWithPermitted(&data)
	case Effective:
		setBits(&data, 1, values)
	case Inheritable:
		setBits(&data, 2, values)
	case Ambient:
		return setAmbient(values)
	default:
		return fmt.Errorf("unknown capability set %d", set)
	}

	if err := capset(&hdr, &data); err != nil {
		return fmt.Errorf("capset: %w", err)
	}
	return nil
}

// bit position within CapUserData: 0=permitted,1=effective,2=inheritable
func setBits(data *[2]unix.CapUserData, field int, values []int) {
	data[0] = clearField(data[0], field)
	data[1] = clearField(data[1], field)
	for _, v := range values {
		idx := v / 32
		bit := uint32(1) << uint(v%32)
		switch field {
		case 0:
			data[idx].Permitted |= bit
		case 1:
			data[idx].Effective |= bit
		case 2:
			data[idx].Inheritable |= bit
		}
	}
}

func clearField(d unix.CapUserData, field int) unix.CapUserData {
	switch field {
	case 0:
		d.Permitted = 0
	case 1:
		d.Effective = 0
	case 2:
		d.Inheritable = 0
	}
	return d
}

func intersectEffectiveWithPermitted(data *[2]unix.CapUserData) {
	data[0].Effective &= data[0].Permitted
	data[1].Effective &= data[1].Permitted
}

func setAmbient(values []int) error {
	// First clear all ambient bits, then raise the requested ones.
	if err := unix.Prctl(unix.PR_CAP_AMBIENT, unix.PR_CAP_AMBIENT_CLEAR_ALL, 0, 0, 0); err != nil {
		return fmt.Errorf("clearing ambient set: %w", err)
	}
	for _, v := range values {
		if err := unix.Prctl(unix.PR_CAP_AMBIENT, unix.PR_CAP_AMBIENT_RAISE, uintptr(v), 0, 0); err != nil {
			return fmt.Errorf("raising ambient capability %d: %w", v, err)
		}
	}
	return nil
}

// SetBounds drops every bounding-set capability not present in keep (or
// drops all of them if keep is empty), bounded by the running kernel's
// last known capability.
func SetBounds(keep []int) error {
	keepSet := make(map[int]bool, len(keep))
	for _, v := range keep {
		keepSet[v] = true
	}
	last := lastCap()
	for c := 0; c <= last; c++ {
		if keepSet[c] {
			continue
		}
		if err := unix.Prctl(unix.PR_CAPBSET_DROP, uintptr(c), 0, 0, 0); err != nil {
			if err == unix.EINVAL {
				// kernel doesn't know about this capability number.
				continue
			}
			return fmt.Errorf("dropping bounding capability %d: %w", c, err)
		}
	}
	return nil
}

// DropPrivs performs a group drop (if requested), setregid/setreuid to
// (uid, gid), a post-condition check that the switch stuck, and sets
// PR_SET_NO_NEW_PRIVS.
func DropPrivs(uid, gid int, dropGroups bool) error {
	if dropGroups {
		if err := unix.Setgroups(nil); err != nil {
			return fmt.Errorf("clearing supplementary groups: %w", err)
		}
	}

	if err := unix.Setregid(gid, gid); err != nil {
		return fmt.Errorf("setregid(%d): %w", gid, err)
	}
	if err := unix.Setreuid(uid, uid); err != nil {
		return fmt.Errorf("setreuid(%d): %w", uid, err)
	}

	if got := unix.Getuid(); got != uid {
		return fmt.Errorf("uid switch did not take effect: want %d got %d", uid, got)
	}
	if got := unix.Getgid(); got != gid {
		return fmt.Errorf("gid switch did not take effect: want %d got %d", gid, got)
	}

	if err := unix.Prctl(unix.PR_SET_NO_NEW_PRIVS, 1, 0, 0, 0); err != nil {
		return fmt.Errorf("setting no_new_privs: %w", err)
	}
	return nil
}
