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

	"golang.org/x/sys/unix"

	"github.com/NVIDIA/libnvidia-container/internal/fs"
	"github.com/NVIDIA/libnvidia-container/internal/options"
)

const appProfileDir = "/etc/nvidia/nvidia-application-profiles-rc.d"

// mountAppProfile is step 2: a tmpfs for the application-profile directory,
// only for graphics-capable containers.
func (p *Plan) mountAppProfile() error {
	if p.containerOpts&options.OptGraphics == 0 {
		return nil
	}

	if err := os.MkdirAll(appProfileDir, 0555); err != nil {
		return err
	}
	if err := fs.Mount("tmpfs", appProfileDir, "tmpfs", 0, "mode=0555"); err != nil {
		return err
	}
	p.record(appProfileDir)

	return fs.Mount("", appProfileDir, "", unix.MS_REMOUNT|unix.MS_NODEV|unix.MS_NOSUID|unix.MS_NOEXEC, "mode=0555")
}
