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

package fs

import (
	"io"
	"os"

	"golang.org/x/sys/unix"

	"github.com/NVIDIA/libnvidia-container/internal/ncerror"
)

// Mount is the uniform bind-mount wrapper every mount creation in this
// module goes through.
func Mount(src, dst, fstype string, flags uintptr, data string) error {
	if err := unix.Mount(src, dst, fstype, flags, data); err != nil {
		return ncerror.FromErrno("mount error", err)
	}
	return nil
}

// Unmount detaches dst, tolerating EINVAL (already unmounted).
func Unmount(dst string, flags int) error {
	if err := unix.Unmount(dst, flags); err != nil && err != unix.EINVAL {
		return ncerror.FromErrno("mount error", err)
	}
	return nil
}

// CopyFile copies src's contents to dst, creating dst owned by (uid, gid)
// with src's mode if mode is zero, or the given mode otherwise. Used by the
// procfs overlay (C8 step 1) to mirror /proc/driver/nvidia/{params,version,
// registry} into the container.
func CopyFile(src, dst string, uid, gid int, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return ncerror.FromErrno("file error", err)
	}
	defer in.Close()

	if mode == 0 {
		info, err := in.Stat()
		if err != nil {
			return ncerror.FromErrno("file error", err)
		}
		mode = info.Mode()
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return ncerror.FromErrno("file error", err)
	}

	return CreateFile(KindRegular, dst, data, uid, gid, mode)
}
