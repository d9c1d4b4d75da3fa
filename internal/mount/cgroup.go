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
	"fmt"
	"os"
	"path/filepath"

	"github.com/NVIDIA/libnvidia-container/internal/ncerror"
)

// authorizeDevice appends "c <major>:<minor> rw" to devices.allow under the
// container's device-cgroup path, spec.md §4.8's cgroup authorization.
// Buffering is flushed before errors are checked, and the write goes
// through an append-mode stream, matching the original's fopen(path, "a").
func authorizeDevice(cgroupPath string, major, minor uint32) error {
	path := filepath.Join(cgroupPath, "devices.allow")

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return ncerror.FromErrno("cgroup error", err)
	}
	defer f.Close()

	line := fmt.Sprintf("c %d:%d rw\n", major, minor)
	_, writeErr := f.WriteString(line)
	syncErr := f.Sync()

	if writeErr != nil {
		return ncerror.FromErrno("cgroup error", writeErr)
	}
	if syncErr != nil {
		return ncerror.FromErrno("cgroup error", syncErr)
	}
	return nil
}
