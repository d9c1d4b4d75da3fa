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
	"strings"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/NVIDIA/libnvidia-container/internal/fs"
)

const procDriverNvidia = "/proc/driver/nvidia"

var procDriverNvidiaFiles = []string{"params", "version", "registry"}

// mountProcfsOverlay is step 1: a tmpfs over /proc/driver/nvidia carrying
// copies of the host's params/version/registry files, with the
// ModifyDeviceFiles bit in params forced to 0 so containers never attempt to
// create device nodes inside their own procfs view.
func (p *Plan) mountProcfsOverlay() error {
	dst := procDriverNvidia
	if err := os.MkdirAll(dst, 0555); err != nil {
		return err
	}
	if err := fs.Mount("tmpfs", dst, "tmpfs", 0, "mode=0555"); err != nil {
		return err
	}
	p.record(dst)

	for _, name := range procDriverNvidiaFiles {
		src := filepath.Join(procDriverNvidia, name)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := p.copyProcFile(src, filepath.Join(dst, name)); err != nil {
			return err
		}
	}

	return fs.Mount("", dst, "", unix.MS_REMOUNT|unix.MS_NODEV|unix.MS_NOSUID|unix.MS_NOEXEC, "mode=0555")
}

// copyProcFile copies src into dst, replacing "ModifyDeviceFiles: 1" with
// "ModifyDeviceFiles: 0" when src is the params file.
func (p *Plan) copyProcFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if filepath.Base(src) == "params" {
		data = []byte(strings.Replace(string(data), "ModifyDeviceFiles: 1", "ModifyDeviceFiles: 0", 1))
	}

	uid, gid := 0, 0
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		uid, gid = int(st.Uid), int(st.Gid)
	}
	return fs.CreateFile(fs.KindRegular, dst, data, uid, gid, info.Mode())
}
