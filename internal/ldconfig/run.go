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
	"os/exec"
	"strconv"
	"strings"

	"github.com/NVIDIA/libnvidia-container/internal/logger"
	"github.com/NVIDIA/libnvidia-container/internal/ncerror"
)

// ChildEnvVar signals a re-exec'd process to run as the ldconfig sandbox
// child rather than the normal CLI/library entry point, the same re-exec
// idiom internal/rpc uses to avoid a bare fork(2) in a multi-threaded
// runtime.
const ChildEnvVar = "__NVC_LDCONFIG_HELPER__"

// Request describes one ldcache_update call, spec.md §4.9.
type Request struct {
	MountNsPath string // /proc/<pid>/ns/mnt, already resolved by C7
	Rootfs      string
	LibsDir     string
	Libs32Dir   string
	LdconfigPath string // "" = probe rootfs; "@/path" = host executable
	UID, GID    int
	DropGroups  bool
	InsecureMode bool
}

// IsChild reports whether this process was re-exec'd to run the sandbox.
func IsChild() bool {
	return os.Getenv(ChildEnvVar) != ""
}

// Update runs the sandboxed ldconfig per spec.md §4.9/§8 invariant 5: it
// always reaps its child; ENOENT from the child (ldconfig missing) is
// success.
func Update(req Request, log logger.Interface) error {
	self, err := os.Executable()
	if err != nil {
		return ncerror.FromErrno("ldconfig error", err)
	}

	hostLdconfig, useHost := strings.CutPrefix(req.LdconfigPath, "@")

	cmd := exec.Command(self)
	cmd.Env = append(os.Environ(),
		ChildEnvVar+"=1",
		"__NVC_LC_MNTNS__="+req.MountNsPath,
		"__NVC_LC_ROOT__="+req.Rootfs,
		"__NVC_LC_LIBS__="+req.LibsDir,
		"__NVC_LC_LIBS32__="+req.Libs32Dir,
		"__NVC_LC_UID__="+strconv.Itoa(req.UID),
		"__NVC_LC_GID__="+strconv.Itoa(req.GID),
		"__NVC_LC_DROPGROUPS__="+strconv.FormatBool(req.DropGroups),
		"__NVC_LC_INSECURE__="+strconv.FormatBool(req.InsecureMode),
	)
	if useHost {
		cmd.Env = append(cmd.Env, "__NVC_LC_HOSTLDCONFIG__="+hostLdconfig)
	}
	cmd.Stderr = os.Stderr
	cmd.Stdout = os.Stdout

	runErr := cmd.Run()
	if runErr == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if !asExitError(runErr, &exitErr) {
		return ncerror.New(ncerror.Protocol, "ldconfig error", runErr)
	}

	if exitErr.ExitCode() == exitCodeENOENT {
		log.Warningf("ldconfig not found, skipping cache update")
		return nil
	}

	ws, ok := exitErr.Sys().(interface{ Signaled() bool })
	if ok && ws.Signaled() {
		return ncerror.New(ncerror.Protocol, "ldconfig error", "child was terminated by a signal")
	}

	return ncerror.New(ncerror.Protocol, "ldconfig error", fmt.Sprintf("failed with error code %d", exitErr.ExitCode()))
}

// exitCodeENOENT is the sentinel exit status the sandbox child uses to
// report that the target ldconfig binary does not exist.
const exitCodeENOENT = 127

func asExitError(err error, out **exec.ExitError) bool {
	ee, ok := err.(*exec.ExitError)
	if ok {
		*out = ee
	}
	return ok
}
