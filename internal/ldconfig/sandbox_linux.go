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

package ldconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/NVIDIA/libnvidia-container/internal/caps"
	"github.com/NVIDIA/libnvidia-container/internal/logger"
)

const (
	rlimitCPUSeconds  = 10
	rlimitASBytes     = 2 << 30 // 2 GiB
	rlimitNOFILE      = 64
	rlimitFSIZEBytes  = 1 << 20 // 1 MiB

	secbitNoSetuidFixup = 1 << 2
)

// RunSandbox is the child process entry point, re-exec'd with ChildEnvVar
// set. It never returns: it execs ldconfig on success, or os.Exit()s with
// a code Update() interprets (127 for ENOENT, signal exits handled by the
// kernel itself once execve succeeds).
func RunSandbox(log logger.Interface) {
	if err := runSandbox(log); err != nil {
		if os.IsNotExist(err) {
			os.Exit(exitCodeENOENT)
		}
		log.Errorf("ldconfig sandbox: %v", err)
		os.Exit(1)
	}
}

func runSandbox(log logger.Interface) error {
	root := os.Getenv("__NVC_LC_ROOT__")
	mntns := os.Getenv("__NVC_LC_MNTNS__")
	libsDir := os.Getenv("__NVC_LC_LIBS__")
	libs32Dir := os.Getenv("__NVC_LC_LIBS32__")
	uid := atoiDefault(os.Getenv("__NVC_LC_UID__"), -1)
	gid := atoiDefault(os.Getenv("__NVC_LC_GID__"), -1)
	dropGroups, _ := strconv.ParseBool(os.Getenv("__NVC_LC_DROPGROUPS__"))
	insecureOK, _ := strconv.ParseBool(os.Getenv("__NVC_LC_INSECURE__"))
	hostLdconfig, useHost := os.LookupEnv("__NVC_LC_HOSTLDCONFIG__")

	if name, err := unix.ByteSliceFromString("nvc-ldconfig"); err == nil {
		unix.Prctl(unix.PR_SET_NAME, uintptr(unsafe.Pointer(&name[0])), 0, 0, 0) //nolint:errcheck
	}

	var ldconfigFile *os.File
	if useHost {
		f, err := os.Open(hostLdconfig)
		if err != nil {
			return err
		}
		ldconfigFile = f
	}

	if mntns != "" {
		nsFD, err := unix.Open(mntns, unix.O_RDONLY, 0)
		if err != nil {
			return fmt.Errorf("opening mount namespace: %w", err)
		}
		if err := unix.Setns(nsFD, unix.CLONE_NEWNS); err != nil {
			unix.Close(nsFD)
			return fmt.Errorf("entering container mount namespace: %w", err)
		}
		unix.Close(nsFD)
	}

	ambientAllowed := dropGroups == false // best-effort: see setgroups probe below

	if err := unix.Unshare(unix.CLONE_NEWNS); err != nil {
		return fmt.Errorf("unshare(CLONE_NEWNS): %w", err)
	}
	if err := unix.Mount("", "/", "", unix.MS_PRIVATE|unix.MS_REC, ""); err != nil {
		return fmt.Errorf("marking / private: %w", err)
	}
	if root != "" && root != "/" {
		if err := unix.Mount(root, root, "", unix.MS_BIND|unix.MS_REC, ""); err != nil {
			return fmt.Errorf("bind-mounting rootfs on itself: %w", err)
		}
		if err := pivotInto(root); err != nil {
			return err
		}
	}

	setgroupsPath := "/proc/self/setgroups"
	if data, err := os.ReadFile(setgroupsPath); err == nil {
		ambientAllowed = strings.TrimSpace(string(data)) != "deny"
	}

	for _, dst := range []string{"/sys", "/dev"} {
		unix.Mount("tmpfs", dst, "tmpfs", 0, "") //nolint:errcheck
	}

	if ambientAllowed {
		caps.SetCaps(caps.Inheritable, []int{unix.CAP_DAC_OVERRIDE}) //nolint:errcheck
		caps.SetCaps(caps.Ambient, []int{unix.CAP_DAC_OVERRIDE})     //nolint:errcheck
	}

	setRlimits()

	if uid != 0 {
		unix.Prctl(unix.PR_SET_SECUREBITS, secbitNoSetuidFixup, 0, 0, 0) //nolint:errcheck
	}
	if uid >= 0 && gid >= 0 {
		if err := caps.DropPrivs(uid, gid, dropGroups); err != nil {
			return fmt.Errorf("dropping privileges: %w", err)
		}
	}

	if err := Install(insecureOK); err != nil {
		if _, ok := err.(*errAvailability); !ok {
			return err
		}
		log.Warningf("seccomp unavailable: %v", err)
	}

	argv := []string{"ldconfig", libsDir, libs32Dir}
	env := []string{}

	if useHost {
		return fexecve(int(ldconfigFile.Fd()), argv, env)
	}
	return execveLdconfig(argv, env)
}

func setRlimits() {
	unix.Setrlimit(unix.RLIMIT_CPU, &unix.Rlimit{Cur: rlimitCPUSeconds, Max: rlimitCPUSeconds})       //nolint:errcheck
	unix.Setrlimit(unix.RLIMIT_AS, &unix.Rlimit{Cur: rlimitASBytes, Max: rlimitASBytes})               //nolint:errcheck
	unix.Setrlimit(unix.RLIMIT_NOFILE, &unix.Rlimit{Cur: rlimitNOFILE, Max: rlimitNOFILE})             //nolint:errcheck
	unix.Setrlimit(unix.RLIMIT_FSIZE, &unix.Rlimit{Cur: rlimitFSIZEBytes, Max: rlimitFSIZEBytes})       //nolint:errcheck
}

// pivotInto performs the open(O_PATH)/pivot_root(".", ".")/detach-unmount/
// chroot(".") sequence spec.md §4.9 specifies for confining the sandbox to
// root.
func pivotInto(root string) error {
	oldRoot, err := unix.Open("/", unix.O_PATH|unix.O_DIRECTORY, 0)
	if err != nil {
		return fmt.Errorf("opening /: %w", err)
	}
	defer unix.Close(oldRoot)

	if err := unix.Chdir(root); err != nil {
		return fmt.Errorf("chdir(%s): %w", root, err)
	}
	if err := unix.PivotRoot(".", "."); err != nil {
		return fmt.Errorf("pivot_root: %w", err)
	}
	if err := unix.Fchdir(oldRoot); err != nil {
		return fmt.Errorf("fchdir to old root: %w", err)
	}
	if err := unix.Unmount(".", unix.MNT_DETACH); err != nil {
		return fmt.Errorf("detaching old root: %w", err)
	}
	if err := unix.Chdir("/"); err != nil {
		return fmt.Errorf("chdir /: %w", err)
	}
	if err := unix.Chroot("."); err != nil {
		return fmt.Errorf("chroot: %w", err)
	}
	return nil
}

// execveLdconfig execs ldconfig by absolute path. By this point the
// process has already pivoted into the container rootfs, so "/sbin/..."
// already resolves inside the container, not the host.
func execveLdconfig(argv, env []string) error {
	path := probeLdconfigPath("/")
	if path == "" {
		return os.ErrNotExist
	}
	return unix.Exec(path, argv, env)
}

// probeLdconfigPath checks for ldconfig.real before the plain ldconfig
// binary under viewRoot, returning "" if neither exists.
func probeLdconfigPath(viewRoot string) string {
	for _, candidate := range []string{"/sbin/ldconfig.real", "/sbin/ldconfig"} {
		if _, err := os.Stat(filepath.Join(viewRoot, candidate)); err == nil {
			return candidate
		}
	}
	return ""
}

// fexecve executes the program open at fd with argv/env, via the
// execveat(2) AT_EMPTY_PATH idiom (no typed wrapper exists in
// golang.org/x/sys/unix, mirroring internal/caps's raw capget/capset
// syscalls for the same reason).
func fexecve(fd int, argv, env []string) error {
	argvPtr, err := syscall.SlicePtrFromStrings(argv)
	if err != nil {
		return err
	}
	envPtr, err := syscall.SlicePtrFromStrings(env)
	if err != nil {
		return err
	}
	if len(argvPtr) == 0 {
		argvPtr = []*byte{nil}
	}
	if len(envPtr) == 0 {
		envPtr = []*byte{nil}
	}
	emptyPath, err := unix.BytePtrFromString("")
	if err != nil {
		return err
	}
	_, _, errno := syscall.Syscall6(unix.SYS_EXECVEAT, uintptr(fd), uintptr(unsafe.Pointer(emptyPath)),
		uintptr(unsafe.Pointer(&argvPtr[0])), uintptr(unsafe.Pointer(&envPtr[0])), unix.AT_EMPTY_PATH, 0)
	if errno != 0 {
		return errno
	}
	return nil
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
