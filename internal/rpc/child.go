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

package rpc

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/sys/unix"

	"github.com/NVIDIA/libnvidia-container/internal/caps"
	"github.com/NVIDIA/libnvidia-container/internal/logger"
)

// IsChild reports whether this process was re-exec'd to run as the RPC
// helper, checked by main() before doing anything else.
func IsChild() bool {
	return os.Getenv(ChildEnvVar) != ""
}

// childSocketFD is the well-known inherited file descriptor position: fd 3,
// the first entry of exec.Cmd.ExtraFiles.
const childSocketFD = 3

// cudaEnv is the fixed environment sanitization list from driver.c's
// setup_env, applied before the helper ever touches the driver library.
var cudaEnv = []struct {
	key   string
	value string
	unset bool
}{
	{key: "CUDA_CACHE_DISABLE", value: "1"},
	{key: "CUDA_DEVICE_ORDER", value: "PCI_BUS_ID"},
	{key: "CUDA_VISIBLE_DEVICES", unset: true},
	{key: "CUDA_UNIFIED_MEMORY", value: "0"},
}

// RunHelper is the child process entry point. It never returns on success:
// it serves RPCs until the parent shuts it down or dies, then exits.
func RunHelper(log logger.Interface) {
	if err := runHelper(log); err != nil {
		log.Errorf("rpc helper: %v", err)
		os.Exit(1)
	}
	os.Exit(0)
}

func runHelper(log logger.Interface) error {
	root := os.Getenv("__NVC_RPC_ROOT__")
	uid := atoiDefault(os.Getenv("__NVC_RPC_UID__"), -1)
	gid := atoiDefault(os.Getenv("__NVC_RPC_GID__"), -1)
	ppid := unix.Getppid()

	f := os.NewFile(childSocketFD, "rpc-helper-socket")
	conn, err := net.FileConn(f)
	if err != nil {
		return fmt.Errorf("adopting rpc socket: %w", err)
	}
	f.Close()

	sanitizeEnv(root)

	if root != "" && root != "/" {
		if err := unix.Chroot(root); err != nil {
			return fmt.Errorf("chroot(%s): %w", root, err)
		}
		if err := unix.Chdir("/"); err != nil {
			return fmt.Errorf("chdir after chroot: %w", err)
		}
	}

	if uid >= 0 && gid >= 0 {
		if err := caps.DropPrivs(uid, gid, true); err != nil {
			return fmt.Errorf("dropping privileges: %w", err)
		}
	}
	if err := caps.SetCaps(caps.Permitted, nil); err != nil {
		return fmt.Errorf("clearing permitted capabilities: %w", err)
	}
	if err := caps.SetBounds(nil); err != nil {
		return fmt.Errorf("clearing bounding capabilities: %w", err)
	}

	if err := unix.Prctl(unix.PR_SET_PDEATHSIG, uintptr(unix.SIGKILL), 0, 0, 0); err != nil {
		return fmt.Errorf("setting parent-death signal: %w", err)
	}
	if unix.Getppid() != ppid {
		return fmt.Errorf("parent exited before helper finished setup")
	}

	srv, err := NewServer(log)
	if err != nil {
		return err
	}
	defer srv.Close()

	srv.Serve(conn)
	return nil
}

// sanitizeEnv resets CUDA_* variables to the safe fixed set and redirects
// the MPS pipe directory under root's tmp, matching driver.c's setup_env.
func sanitizeEnv(root string) {
	for _, e := range cudaEnv {
		if e.unset {
			os.Unsetenv(e.key)
			continue
		}
		os.Setenv(e.key, e.value)
	}
	os.Setenv("CUDA_MPS_PIPE_DIRECTORY", filepath.Join(root, "tmp", "nvidia-mps"))
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
