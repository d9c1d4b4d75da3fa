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

package nvc

import (
	"github.com/NVIDIA/libnvidia-container/internal/driverinfo"
	"github.com/NVIDIA/libnvidia-container/internal/options"
)

// DriverInfo is the assembled set of host driver artifacts for a given
// capability set, spec.md §6's driver_info_new/free.
type DriverInfo = driverinfo.DriverInfo

// DeviceInfo describes one GPU, spec.md §6's device_info_new/free.
type DeviceInfo = driverinfo.DeviceInfo

// DriverInfoNew assembles the driver info for driverOpts/containerOpts by
// querying the driver RPC helper and resolving binaries, libraries, IPCs,
// and device nodes under ctx's configured root.
func DriverInfoNew(ctx *Context, containerOpts options.ContainerOpts, driverOpts options.DriverOpts) (*DriverInfo, error) {
	info, err := driverinfo.Assemble(ctx.cfg.Root, ctx.cfg.LdcachePath, containerOpts, driverOpts, ctx.svc, ctx.log)
	if err != nil {
		return nil, ctx.fail(err)
	}
	return info, nil
}

// DeviceInfoNew returns the device at index out of a DriverInfo previously
// assembled with DriverInfoNew, or false when index is out of range. Lookup
// by uuid or busid is not supported.
func DeviceInfoNew(info *DriverInfo, index int) (*DeviceInfo, bool) {
	if index < 0 || index >= len(info.Devices) {
		return nil, false
	}
	d := info.Devices[index]
	return &d, true
}
