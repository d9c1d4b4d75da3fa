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

// Package driverinfo assembles the set of host binaries, shared libraries,
// IPC endpoints, and device nodes a requested container capability set
// needs (C6). Grounded on original_source/src/nvc_info.c; uses C2
// (internal/ldcache), C3 (internal/elf), and C5 (internal/rpc) to resolve
// each category.
package driverinfo

// DeviceInfo describes one GPU as reported by the driver RPC helper, plus
// its PCI-sysfs presence confirmation.
type DeviceInfo struct {
	Index int
	Minor uint32
	Busid string
	UUID  string
	Model string
	Brand string
	Arch  struct{ Major, Minor int }
}

// DriverInfo is the full assembled set consumed by the mount injector (C8).
type DriverInfo struct {
	RMVersion   string
	CUDAMajor   int
	CUDAMinor   int
	Bins        []string
	Libs        []string
	Libs32      []string
	IPCs        []string
	Devs        []string
	Devices     []DeviceInfo
}
