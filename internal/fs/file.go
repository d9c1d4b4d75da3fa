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
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/NVIDIA/libnvidia-container/internal/ncerror"
)

// Kind selects what CreateFile produces.
type Kind int

const (
	KindDirectory Kind = iota
	KindSymlink
	KindRegular
)

// CreateFile creates a directory, symlink, or regular file at path with the
// given mode, owned by (uid, gid). Before any filesystem syscall the
// process's filesystem uid/gid are swapped to (uid, gid) and restored on
// exit, so inodes created inside a user-namespaced rootfs carry ids the VFS
// will accept; CAP_DAC_OVERRIDE is restored in the effective set around the
// swap when the kernel permits it. Parent directories are created eagerly
// with mode 0777 &^ umask | 0300.
func CreateFile(kind Kind, path string, data []byte, uid, gid int, mode os.FileMode) error {
	if kind == KindSymlink && data == nil {
		return ncerror.New(ncerror.Invalid, "file error", "symlink target must not be empty")
	}
	if kind == KindRegular && data == nil {
		data = []byte{}
	}

	restore, err := swapFSIDs(uid, gid)
	if err != nil {
		return ncerror.FromErrno("file error", err)
	}
	defer restore()

	if err := mkdirAllOwned(filepath.Dir(path), uid, gid); err != nil {
		return ncerror.FromErrno("file error", err)
	}

	switch kind {
	case KindDirectory:
		if err := os.Mkdir(path, mode); err != nil && !os.IsExist(err) {
			return ncerror.FromErrno("file error", err)
		}
		if err := os.Chmod(path, mode); err != nil {
			return ncerror.FromErrno("file error", err)
		}
		return nil
	case KindSymlink:
		target := string(data)
		if err := os.Symlink(target, path); err != nil {
			return ncerror.FromErrno("file error", err)
		}
		return nil
	case KindRegular:
		f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
		if err != nil {
			return ncerror.FromErrno("file error", err)
		}
		defer f.Close()
		if _, err := f.Write(data); err != nil {
			return ncerror.FromErrno("file error", err)
		}
		if err := f.Chmod(mode); err != nil {
			return ncerror.FromErrno("file error", err)
		}
		return nil
	default:
		return ncerror.New(ncerror.Invalid, "file error", fmt.Sprintf("unknown kind %d", kind))
	}
}

func mkdirAllOwned(dir string, uid, gid int) error {
	if dir == "" || dir == "/" || dir == "." {
		return nil
	}
	if _, err := os.Stat(dir); err == nil {
		return nil
	}
	if err := mkdirAllOwned(filepath.Dir(dir), uid, gid); err != nil {
		return err
	}
	mask := unix.Umask(0)
	unix.Umask(mask)
	mode := os.FileMode(0777&^mask) | 0300
	if err := os.Mkdir(dir, mode); err != nil && !os.IsExist(err) {
		return err
	}
	return nil
}

// swapFSIDs sets the process's filesystem uid/gid to (uid, gid) and
// returns a restore function. If CAP_DAC_OVERRIDE can be raised in the
// effective set for the duration, it is.
func swapFSIDs(uid, gid int) (func(), error) {
	origUID := unix.Setfsuid(-1)
	origGID := unix.Setfsgid(-1)

	capRestore := tryRaiseDACOverride()

	unix.Setfsgid(gid)
	unix.Setfsuid(uid)

	return func() {
		unix.Setfsuid(origUID)
		unix.Setfsgid(origGID)
		capRestore()
	}, nil
}

// RemoveFile is a post-order walk that deletes empty files, broken
// symlinks, and empty directories; non-empty files/directories are left in
// place. This is the rollback primitive used to unwind a failed mount
// plan.
func RemoveFile(path string) error {
	info, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return ncerror.FromErrno("file error", err)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		if _, statErr := os.Stat(path); statErr != nil {
			if err := os.Remove(path); err != nil {
				return ncerror.FromErrno("file error", err)
			}
		}
		return nil
	}

	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return ncerror.FromErrno("file error", err)
		}
		for _, e := range entries {
			if err := RemoveFile(filepath.Join(path, e.Name())); err != nil {
				return err
			}
		}
		entries, err = os.ReadDir(path)
		if err != nil {
			return ncerror.FromErrno("file error", err)
		}
		if len(entries) == 0 {
			if err := os.Remove(path); err != nil {
				return ncerror.FromErrno("file error", err)
			}
		}
		return nil
	}

	if info.Size() == 0 {
		if err := os.Remove(path); err != nil {
			return ncerror.FromErrno("file error", err)
		}
	}
	return nil
}
