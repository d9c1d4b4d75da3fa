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
)

const (
	binsDir   = "/usr/bin"
	libsDir   = "/usr/lib/x86_64-linux-gnu"
	libs32Dir = "/usr/lib/i386-linux-gnu"
)

// mountBinariesAndLibraries is step 3: for each of binaries/libraries/
// libs32, create the target directory then bind-mount every source file
// into it, read-only. The basename lists on p.info are already filtered by
// capability flags: C6's Assemble is called with the same containerOpts
// used to build this plan, so graphics/video/compute entries the container
// didn't request were never resolved in the first place.
func (p *Plan) mountBinariesAndLibraries() error {
	uid, gid := int(p.cfg.UID), int(p.cfg.GID)
	flags := uintptr(unix.MS_RDONLY | unix.MS_NODEV | unix.MS_NOSUID)

	if err := p.bindTree(binsDir, p.info.Bins, uid, gid, flags); err != nil {
		return err
	}
	if err := p.bindTree(libsDir, p.info.Libs, uid, gid, flags); err != nil {
		return err
	}
	return p.bindTree(libs32Dir, p.info.Libs32, uid, gid, flags)
}

func (p *Plan) bindTree(dir string, files []string, uid, gid int, extraFlags uintptr) error {
	if len(files) == 0 {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for _, src := range files {
		dst := baseJoin(dir, src)
		if err := bindFile(src, dst, uid, gid, extraFlags); err != nil {
			return err
		}
		p.record(dst)
	}
	return nil
}
