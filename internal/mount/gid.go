/**
# Copyright (c) 2022, NVIDIA CORPORATION.  All rights reserved.
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

	"golang.org/x/sys/unix"
)

// AdditionalGIDs returns the supplementary group ids the container's init
// process needs to access the devices this plan injected, for callers that
// have internal/config's allow-additional-gids feature enabled.
func (p *Plan) AdditionalGIDs() []uint32 {
	return requiredGIDsForDevices(p.info.Devs)
}

// requiredGIDsForDevices returns the set of supplementary group ids needed
// for the container's init user to access devices that are not world
// read/writable, adapted from the teacher's CDI device-edit GID logic:
// char devices owned by a restrictive group (e.g. a distro's "video" or
// "render" group) need that gid granted to the container, since bind
// mounts preserve the source inode's ownership and mode.
func requiredGIDsForDevices(devicePaths []string) []uint32 {
	seen := make(map[uint32]bool)
	var gids []uint32
	for _, path := range devicePaths {
		gid := getRequiredGID(path)
		if gid == 0 || seen[gid] {
			continue
		}
		seen[gid] = true
		gids = append(gids, gid)
	}
	return gids
}

// getRequiredGID returns the owning gid of path if it is a char device that
// is not world read/writable, else 0.
func getRequiredGID(path string) uint32 {
	var stat unix.Stat_t
	if err := unix.Lstat(path, &stat); err != nil {
		return 0
	}
	if stat.Mode&unix.S_IFMT != unix.S_IFCHR {
		return 0
	}
	if permissionsForOther := os.FileMode(stat.Mode).Perm(); permissionsForOther&06 == 0 {
		return stat.Gid
	}
	return 0
}
