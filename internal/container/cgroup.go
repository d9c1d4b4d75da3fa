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

package container

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/moby/sys/mountinfo"

	"github.com/NVIDIA/libnvidia-container/internal/ncerror"
)

// deviceCgroupPath implements spec.md §4.7's two-file parse: find the
// devices-controller mount in mountinfo, then the matching line in cgroup,
// and stitch the pieces together. rootfsPrefix is "" in supervised mode and
// the container's rootfs in standalone mode, matching the view used for
// the mount-namespace path.
func deviceCgroupPath(pid int, rootfsPrefix string) (string, error) {
	mountinfoPath := filepath.Join(rootfsPrefix, fmt.Sprintf("/proc/%d/mountinfo", pid))
	cgroupPath := filepath.Join(rootfsPrefix, fmt.Sprintf("/proc/%d/cgroup", pid))

	f, err := os.Open(mountinfoPath)
	if err != nil {
		return "", ncerror.FromErrno("container error", err)
	}
	defer f.Close()

	mounts, err := mountinfo.GetMountsFromReader(f, mountinfo.FSTypeFilter("cgroup"))
	if err != nil {
		return "", ncerror.New(ncerror.Protocol, "container error", err.Error())
	}

	var mountpoint, root string
	for _, m := range mounts {
		if !hasOption(m.VFSOptions, "devices") {
			continue
		}
		if strings.HasPrefix(m.Root, "/..") {
			continue
		}
		mountpoint = m.Mountpoint
		root = m.Root
		break
	}
	if mountpoint == "" {
		return "", ncerror.New(ncerror.Missing, "container error", "devices cgroup controller not found")
	}

	subPath, err := deviceSubsystemPath(cgroupPath)
	if err != nil {
		return "", err
	}

	// cgroup_root prefix stripping (spec.md §9 Open Question): strip the
	// mountinfo root field from the cgroup-reported path only when that
	// root field is not "/" — see DESIGN.md.
	if root != "" && root != "/" {
		subPath = strings.TrimPrefix(subPath, root)
	}

	return filepath.Join(rootfsPrefix, mountpoint, subPath), nil
}

func hasOption(opts, want string) bool {
	for _, o := range strings.Split(opts, ",") {
		if o == want {
			return true
		}
	}
	return false
}

func deviceSubsystemPath(cgroupPath string) (string, error) {
	f, err := os.Open(cgroupPath)
	if err != nil {
		return "", ncerror.FromErrno("container error", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.SplitN(sc.Text(), ":", 3)
		if len(fields) != 3 {
			continue
		}
		for _, subsys := range strings.Split(fields[1], ",") {
			if subsys == "devices" {
				return fields[2], nil
			}
		}
	}
	return "", ncerror.New(ncerror.Missing, "container error", "devices subsystem not found in cgroup")
}
