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

package fs

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

// getCapData/capset mirror internal/caps's raw syscall wrappers. They are
// duplicated rather than imported to keep internal/fs free of a dependency
// on internal/caps: fs is a leaf package (C1) that internal/caps-adjacent
// code builds on, not the reverse.
func getCapData(hdr *unix.CapUserHeader) ([2]unix.CapUserData, error) {
	var data [2]unix.CapUserData
	_, _, errno := syscall.Syscall(syscall.SYS_CAPGET, uintptr(unsafe.Pointer(hdr)), uintptr(unsafe.Pointer(&data[0])), 0)
	if errno != 0 {
		return data, errno
	}
	return data, nil
}

func capset(hdr *unix.CapUserHeader, data *[2]unix.CapUserData) error {
	_, _, errno := syscall.Syscall(syscall.SYS_CAPSET, uintptr(unsafe.Pointer(hdr)), uintptr(unsafe.Pointer(&data[0])), 0)
	if errno != 0 {
		return errno
	}
	return nil
}
