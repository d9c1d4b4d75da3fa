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
	"github.com/NVIDIA/libnvidia-container/internal/container"
	"github.com/NVIDIA/libnvidia-container/internal/mount"
	"github.com/NVIDIA/libnvidia-container/internal/options"
)

// ContainerConfig describes the target container, spec.md §6's
// container_config_new/container_new: the PID to resolve namespaces and
// rootfs against, the capability flags, and any caller-supplied overrides.
type ContainerConfig struct {
	Pid          int
	Rootfs       string
	Flags        options.ContainerOpts
	DeviceCgroup string
	Ldconfig     string
	Libs32Dir    string

	// AdditionalGIDs is populated by DriverMount, when the
	// allow-additional-gids feature is enabled, with the supplementary
	// group ids the container's init process needs to access the device
	// nodes DriverMount injected.
	AdditionalGIDs []uint32

	resolved *container.Config
	plan     *mount.Plan
}

// NewContainerConfig resolves pid's namespaces, rootfs view, ldconfig
// binary, and device cgroup path into a ContainerConfig ready to drive
// DriverMount/DeviceMount.
func NewContainerConfig(pid int, rootfs string, flags options.ContainerOpts) (*ContainerConfig, error) {
	return newContainerConfig(pid, rootfs, flags, container.Overrides{})
}

// NewContainerConfigWithOverrides is NewContainerConfig with explicit
// overrides for the device cgroup path, ldconfig binary, or 32-bit
// library directory, for callers that already know these and want to
// skip autodetection.
func NewContainerConfigWithOverrides(pid int, rootfs string, flags options.ContainerOpts, deviceCgroup, ldconfig, libs32Dir string) (*ContainerConfig, error) {
	return newContainerConfig(pid, rootfs, flags, container.Overrides{
		DeviceCgroup: deviceCgroup,
		Ldconfig:     ldconfig,
		Libs32Dir:    libs32Dir,
	})
}

func newContainerConfig(pid int, rootfs string, flags options.ContainerOpts, overrides container.Overrides) (*ContainerConfig, error) {
	resolved, err := container.New(pid, rootfs, flags, overrides)
	if err != nil {
		return nil, err
	}
	return &ContainerConfig{
		Pid:          pid,
		Rootfs:       rootfs,
		Flags:        flags,
		DeviceCgroup: resolved.DeviceCgroup,
		Ldconfig:     resolved.Ldconfig,
		Libs32Dir:    resolved.Libs32Dir,
		resolved:     resolved,
	}, nil
}
