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

package mount

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/NVIDIA/libnvidia-container/internal/fs"
	"github.com/NVIDIA/libnvidia-container/internal/options"
)

// statDeviceIDs records each device node's (major, minor) from the host's
// own view, before the plan switches into the container's mount namespace.
func (p *Plan) statDeviceIDs() {
	p.deviceIDs = make(map[string][2]uint32, len(p.info.Devs))
	for _, dev := range p.info.Devs {
		var st unix.Stat_t
		if err := unix.Stat(dev, &st); err != nil {
			continue
		}
		p.deviceIDs[dev] = [2]uint32{uint32(unix.Major(st.Rdev)), uint32(unix.Minor(st.Rdev))}
	}
}

// mountDevices is step 7: bind-mount the device nodes driverinfo.Assemble
// already filtered by no-uvm/no-modeset (C6), skipping the UVM nodes for
// non-compute containers and the modeset node for non-display ones, then
// authorize each in the device cgroup. no-devbind skips the bind but still
// authorizes the cgroup rule, matching the policy that cgroup authorization
// is independent of whether the node is actually made visible by a mount.
func (p *Plan) mountDevices() error {
	uid, gid := int(p.cfg.UID), int(p.cfg.GID)

	for _, dev := range p.info.Devs {
		switch filepath.Base(dev) {
		case "nvidia-uvm", "nvidia-uvm-tools":
			if p.containerOpts&options.OptCompute == 0 {
				continue
			}
		case "nvidia-modeset":
			if p.containerOpts&options.OptDisplay == 0 {
				continue
			}
		}
		if p.containerOpts&options.OptNoDevbind == 0 {
			info, err := os.Stat(dev)
			if err != nil {
				continue
			}
			if err := fs.CreateFile(fs.KindRegular, dev, nil, uid, gid, info.Mode()); err != nil {
				return err
			}
			if err := fs.Mount(dev, dev, "", unix.MS_BIND, ""); err != nil {
				return err
			}
			if err := fs.Mount("", dev, "", unix.MS_REMOUNT|unix.MS_BIND|unix.MS_RDONLY|unix.MS_NOSUID|unix.MS_NOEXEC, ""); err != nil {
				return err
			}
			p.record(dev)
		}

		if p.cfg.DeviceCgroup != "" {
			if id, ok := p.deviceIDs[dev]; ok {
				if err := authorizeDevice(p.cfg.DeviceCgroup, id[0], id[1]); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
