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
)

// removeMountpoint deletes an empty file or directory left behind by a
// rolled-back bind mount.
func removeMountpoint(path string) error {
	info, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		return os.Remove(path)
	}
	return os.Remove(path)
}

// bindFile creates an empty regular file at dst with src's mode, bind-mounts
// src over it, then remounts with the given read-only/hardening flags. This
// is the per-file idiom steps 3, 5 and 8 share.
func bindFile(src, dst string, uid, gid int, extraFlags uintptr) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if err := fs.CreateFile(fs.KindRegular, dst, nil, uid, gid, info.Mode()); err != nil {
		return err
	}
	if err := fs.Mount(src, dst, "", unix.MS_BIND, ""); err != nil {
		return err
	}
	return fs.Mount(src, dst, "", unix.MS_BIND|unix.MS_REMOUNT|extraFlags, "")
}

func baseJoin(dir, path string) string {
	return filepath.Join(dir, filepath.Base(path))
}
