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
	"strings"

	"golang.org/x/sys/unix"

	"github.com/NVIDIA/libnvidia-container/internal/fs"
	"github.com/NVIDIA/libnvidia-container/internal/options"
)

// mountIPCs is step 6: bind-mount the persistenced socket (utility) and MPS
// pipe directory entries (compute) the driver info assembler found.
func (p *Plan) mountIPCs() error {
	uid, gid := int(p.cfg.UID), int(p.cfg.GID)

	for _, src := range p.info.IPCs {
		if strings.Contains(src, "nvidia-persistenced") && p.containerOpts&options.OptUtility == 0 {
			continue
		}
		if strings.Contains(src, "nvidia-mps") && p.containerOpts&options.OptCompute == 0 {
			continue
		}

		info, err := os.Stat(src)
		if err != nil {
			continue
		}

		kind := fs.KindRegular
		if info.IsDir() {
			kind = fs.KindDirectory
		}
		if err := fs.CreateFile(kind, src, nil, uid, gid, info.Mode()); err != nil {
			return err
		}
		if err := fs.Mount(src, src, "", unix.MS_BIND, ""); err != nil {
			return err
		}
		if err := fs.Mount("", src, "", unix.MS_REMOUNT|unix.MS_BIND|unix.MS_NODEV|unix.MS_NOSUID|unix.MS_NOEXEC, ""); err != nil {
			return err
		}
		p.record(src)
	}
	return nil
}
