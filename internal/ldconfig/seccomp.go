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

	specs "github.com/opencontainers/runtime-spec/specs-go"
)

// allowedSyscalls is the fixed allowlist from spec.md §6, covering file
// I/O, memory, directory traversal, and process query, and nothing else.
var allowedSyscalls = []string{
	"access", "arch_prctl", "brk", "chdir", "chmod", "close", "execve",
	"execveat", "exit", "exit_group", "fcntl", "fdatasync", "fstat",
	"fsync", "ftruncate", "getcwd", "getdents", "getdents64", "getegid",
	"geteuid", "getgid", "getpid", "gettid", "gettimeofday", "getuid",
	"lseek", "lstat", "mkdir", "mmap", "mprotect", "mremap", "munmap",
	"newfstatat", "open", "openat", "read", "readlink", "readv", "rename",
	"rt_sigaction", "rt_sigprocmask", "rt_sigreturn", "stat", "symlink",
	"tgkill", "time", "uname", "unlink", "write", "writev",
}

// ociSeccompProfile renders the allowlist as an opencontainers/runtime-spec
// LinuxSeccomp value — the pack's declarative shape for a seccomp profile
// (also used to describe the default OCI runtime profile) — for
// inspection/logging, even though this module's actual enforcement path
// compiles a classic BPF program directly (see seccomp_linux.go): no
// pack example carries a pure-Go compiler from this declarative shape to
// installable BPF bytecode, only libseccomp cgo bindings, which this
// module avoids per its no-cgo NVML-loading design.
func ociSeccompProfile() *specs.LinuxSeccomp {
	p := &specs.LinuxSeccomp{
		DefaultAction: specs.ActErrno,
		Architectures: []specs.Arch{specs.ArchX86_64},
	}
	for _, name := range allowedSyscalls {
		p.Syscalls = append(p.Syscalls, specs.LinuxSyscall{
			Names:  []string{name},
			Action: specs.ActAllow,
		})
	}
	return p
}

// errAvailability is returned by Install in place of the underlying error
// when installing the filter fails and insecureOK is set; the sandbox then
// logs a warning and continues without the filter.
type errAvailability struct{ reason string }

func (e *errAvailability) Error() string { return fmt.Sprintf("seccomp unavailable: %s", e.reason) }
