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

// Package mount injects driver artifacts into a container's mount
// namespace and authorizes the corresponding device nodes in its device
// cgroup (C8). Grounded on original_source/src/nvc_mount.c.
package mount

import (
	"runtime"

	"golang.org/x/sys/unix"

	"github.com/NVIDIA/libnvidia-container/internal/container"
	"github.com/NVIDIA/libnvidia-container/internal/driverinfo"
	"github.com/NVIDIA/libnvidia-container/internal/logger"
	"github.com/NVIDIA/libnvidia-container/internal/ncerror"
	"github.com/NVIDIA/libnvidia-container/internal/options"
)

// Plan assembles the driver mounts for one container, spec.md §4.8.
type Plan struct {
	cfg           *container.Config
	info          *driverinfo.DriverInfo
	containerOpts options.ContainerOpts
	log           logger.Interface

	done []string // mountpoints successfully created, in order, for rollback

	// deviceIDs is captured from the host side, before entering the
	// container's mount namespace, since cgroup authorization needs each
	// device node's major/minor even when no-devbind skips its bind mount.
	deviceIDs map[string][2]uint32
}

// NewPlan builds a mount plan for the given container descriptor and
// assembled driver info.
func NewPlan(cfg *container.Config, info *driverinfo.DriverInfo, containerOpts options.ContainerOpts, log logger.Interface) *Plan {
	return &Plan{cfg: cfg, info: info, containerOpts: containerOpts, log: log}
}

// Apply performs steps 1-7 of the mount plan inside the container's mount
// namespace, atomically: on any failure the success list is unwound in
// reverse and the caller's original mount namespace is always restored.
func (p *Plan) Apply() error {
	p.statDeviceIDs()
	return p.withContainerNS(func() error {
		steps := []func() error{
			p.mountProcfsOverlay,
			p.mountAppProfile,
			p.mountBinariesAndLibraries,
			p.createSymlinks,
			p.mountCompatLibs,
			p.mountIPCs,
			p.mountDevices,
		}
		for _, step := range steps {
			if err := step(); err != nil {
				p.rollback()
				return err
			}
		}
		return nil
	})
}

// MountGPU performs step 8 for one selected device, also run inside the
// container's mount namespace.
func (p *Plan) MountGPU(dev driverinfo.DeviceInfo) error {
	return p.withContainerNS(func() error {
		if err := p.mountGPU(dev); err != nil {
			p.rollback()
			return err
		}
		return nil
	})
}

// withContainerNS switches the calling OS thread into the container's mount
// namespace for the duration of fn, always restoring the caller's original
// namespace afterward. The goroutine stays locked to its OS thread until
// the original namespace has been restored.
func (p *Plan) withContainerNS(fn func() error) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	selfNS, err := unix.Open("/proc/self/ns/mnt", unix.O_RDONLY, 0)
	if err != nil {
		return ncerror.FromErrno("mount error", err)
	}
	defer unix.Close(selfNS)

	targetNS, err := unix.Open(p.cfg.MountNsPath, unix.O_RDONLY, 0)
	if err != nil {
		return ncerror.FromErrno("mount error", err)
	}
	defer unix.Close(targetNS)

	if err := unix.Setns(targetNS, unix.CLONE_NEWNS); err != nil {
		return ncerror.FromErrno("mount error", err)
	}
	defer unix.Setns(selfNS, unix.CLONE_NEWNS) //nolint:errcheck

	return fn()
}

// record notes a successfully created mountpoint for rollback ordering.
func (p *Plan) record(path string) {
	p.done = append(p.done, path)
}

// rollback reverses p.done: lazy-detach unmount then remove, in reverse
// creation order, per spec.md §4.8's atomicity invariant.
func (p *Plan) rollback() {
	for i := len(p.done) - 1; i >= 0; i-- {
		path := p.done[i]
		if err := unix.Unmount(path, unix.MNT_DETACH); err != nil && err != unix.EINVAL {
			p.log.Warningf("rollback: unmount %s: %v", path, err)
		}
		if err := removeMountpoint(path); err != nil {
			p.log.Warningf("rollback: remove %s: %v", path, err)
		}
	}
	p.done = nil
}
