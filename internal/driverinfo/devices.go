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

package driverinfo

import (
	"fmt"
	"os"

	"github.com/NVIDIA/go-nvlib/pkg/nvpci"

	"github.com/NVIDIA/libnvidia-container/internal/logger"
	"github.com/NVIDIA/libnvidia-container/internal/ncerror"
	"github.com/NVIDIA/libnvidia-container/internal/options"
	"github.com/NVIDIA/libnvidia-container/internal/rpc"
)

// assembleDevices walks every GPU the RPC helper reports and confirms each
// is still bound to the nvidia kernel driver in sysfs before trusting its
// RPC-reported minor, the "device still present" guard nvc_info.c's
// info_lookup_devices performs (added, not in the distilled spec).
func assembleDevices(svc *rpc.Service, log logger.Interface) ([]DeviceInfo, error) {
	count, err := svc.DeviceCount()
	if err != nil {
		return nil, err
	}

	pci := nvpci.New()

	var devices []DeviceInfo
	for i := 0; i < count; i++ {
		h, err := svc.Device(i)
		if err != nil {
			return nil, err
		}

		var d DeviceInfo
		d.Index = i

		if d.Minor, err = svc.DeviceMinor(h); err != nil {
			return nil, err
		}
		if d.Busid, err = svc.DeviceBusid(h); err != nil {
			return nil, err
		}
		if d.UUID, err = svc.DeviceUUID(h); err != nil {
			return nil, err
		}
		if d.Model, err = svc.DeviceModel(h); err != nil {
			return nil, err
		}
		if d.Brand, err = svc.DeviceBrand(h); err != nil {
			return nil, err
		}
		if d.Arch.Major, d.Arch.Minor, err = svc.DeviceArch(h); err != nil {
			return nil, err
		}

		if _, err := pci.GetGPUByPciBusID(d.Busid); err != nil {
			return nil, ncerror.New(ncerror.Missing, "device error", fmt.Sprintf("%s is no longer bound to the nvidia driver", d.Busid))
		}

		devices = append(devices, d)
	}
	return devices, nil
}

// deviceNodePaths returns the fixed control/modeset/uvm device node paths,
// gated only by no-uvm/no-modeset per spec.md §4.6 step 4 (the further
// compute/display capability filtering happens in the mount injector, C8),
// plus one /dev/nvidia<minor> per reported device.
func deviceNodePaths(root string, driverOpts options.DriverOpts, devices []DeviceInfo) []string {
	var devs []string

	ctl := fmt.Sprintf("%s/dev/nvidiactl", root)
	if existsAccessible(ctl) {
		devs = append(devs, ctl)
	}

	if driverOpts&options.OptNoUVM == 0 {
		for _, name := range []string{"/dev/nvidia-uvm", "/dev/nvidia-uvm-tools"} {
			p := root + name
			if existsAccessible(p) {
				devs = append(devs, p)
			}
		}
	}

	if driverOpts&options.OptNoModeset == 0 {
		p := root + "/dev/nvidia-modeset"
		if existsAccessible(p) {
			devs = append(devs, p)
		}
	}

	for _, d := range devices {
		p := fmt.Sprintf("%s%s%d", root, pathDevPrefix, d.Minor)
		if existsAccessible(p) {
			devs = append(devs, p)
		}
	}

	return devs
}

func existsAccessible(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
