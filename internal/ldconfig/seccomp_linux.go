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
	"unsafe"

	"golang.org/x/sys/unix"
)

// Classic BPF opcodes needed for a seccomp filter: load a 32-bit word,
// conditional/unconditional jump, return.
const (
	bpfLdW   = 0x00 | 0x20 | 0x00 // BPF_LD | BPF_W | BPF_ABS (k is absolute)
	bpfJmpJA = 0x05               // BPF_JMP | BPF_JA
	bpfJeqK  = 0x15               // BPF_JMP | BPF_JEQ | BPF_K
	bpfRetK  = 0x06               // BPF_RET | BPF_K
)

const (
	seccompRetAllow uint32 = 0x7fff0000
	seccompRetKill  uint32 = 0x00000000
	seccompRetErrno uint32 = 0x00050000

	auditArchX86_64 uint32 = 0xc000003e

	// offsets into struct seccomp_data on a 64-bit kernel.
	offNR   = 0
	offArch = 4
)

// syscallNumbers maps the fixed allowlist to this platform's syscall
// numbers, grounded on golang.org/x/sys/unix's SYS_* constants (amd64).
var syscallNumbers = map[string]int64{
	"access": unix.SYS_ACCESS, "arch_prctl": unix.SYS_ARCH_PRCTL,
	"brk": unix.SYS_BRK, "chdir": unix.SYS_CHDIR, "chmod": unix.SYS_CHMOD,
	"close": unix.SYS_CLOSE, "execve": unix.SYS_EXECVE,
	"execveat": unix.SYS_EXECVEAT, "exit": unix.SYS_EXIT,
	"exit_group": unix.SYS_EXIT_GROUP, "fcntl": unix.SYS_FCNTL,
	"fdatasync": unix.SYS_FDATASYNC, "fstat": unix.SYS_FSTAT,
	"fsync": unix.SYS_FSYNC, "ftruncate": unix.SYS_FTRUNCATE,
	"getcwd": unix.SYS_GETCWD, "getdents": unix.SYS_GETDENTS,
	"getdents64": unix.SYS_GETDENTS64, "getegid": unix.SYS_GETEGID,
	"geteuid": unix.SYS_GETEUID, "getgid": unix.SYS_GETGID,
	"getpid": unix.SYS_GETPID, "gettid": unix.SYS_GETTID,
	"gettimeofday": unix.SYS_GETTIMEOFDAY, "getuid": unix.SYS_GETUID,
	"lseek": unix.SYS_LSEEK, "lstat": unix.SYS_LSTAT,
	"mkdir": unix.SYS_MKDIR, "mmap": unix.SYS_MMAP,
	"mprotect": unix.SYS_MPROTECT, "mremap": unix.SYS_MREMAP,
	"munmap": unix.SYS_MUNMAP, "newfstatat": unix.SYS_NEWFSTATAT,
	"open": unix.SYS_OPEN, "openat": unix.SYS_OPENAT, "read": unix.SYS_READ,
	"readlink": unix.SYS_READLINK, "readv": unix.SYS_READV,
	"rename": unix.SYS_RENAME, "rt_sigaction": unix.SYS_RT_SIGACTION,
	"rt_sigprocmask": unix.SYS_RT_SIGPROCMASK,
	"rt_sigreturn":   unix.SYS_RT_SIGRETURN, "stat": unix.SYS_STAT,
	"symlink": unix.SYS_SYMLINK, "tgkill": unix.SYS_TGKILL,
	"time": unix.SYS_TIME, "uname": unix.SYS_UNAME,
	"unlink": unix.SYS_UNLINK, "write": unix.SYS_WRITE,
	"writev": unix.SYS_WRITEV,
}

// buildFilter compiles the fixed allowlist into a classic BPF program
// matching the load→compare→allow/deny shape every kernel seccomp(2)
// filter takes: reject the wrong architecture outright, then one
// comparison per allowed syscall number, defaulting to ERRNO(EPERM).
func buildFilter() []unix.SockFilter {
	names := allowedSyscalls

	prog := []unix.SockFilter{
		{Code: bpfLdW, K: offArch},
	}
	// arch check: jt=1 (fall into the real program), jf=skip straight to kill
	prog = append(prog, unix.SockFilter{Code: bpfJeqK, K: auditArchX86_64, Jt: 1, Jf: 0})
	prog = append(prog, unix.SockFilter{Code: bpfRetK, K: seccompRetKill})

	prog = append(prog, unix.SockFilter{Code: bpfLdW, K: offNR})

	// one JEQ per syscall; on match jump forward to the ALLOW instruction,
	// on mismatch fall through to the next comparison.
	n := len(names)
	for i, name := range names {
		nr, ok := syscallNumbers[name]
		if !ok {
			continue
		}
		remaining := uint8(n - i) // instructions between this one and ALLOW
		prog = append(prog, unix.SockFilter{Code: bpfJeqK, K: uint32(nr), Jt: remaining, Jf: 0})
	}
	prog = append(prog, unix.SockFilter{Code: bpfRetK, K: seccompRetErrno | uint32(unix.EPERM)})
	prog = append(prog, unix.SockFilter{Code: bpfRetK, K: seccompRetAllow})

	return prog
}

// Install applies the fixed seccomp allowlist to the calling thread via
// PR_SET_SECCOMP/SECCOMP_MODE_FILTER. insecureOK relaxes a missing
// CONFIG_SECCOMP kernel to a warning instead of a hard failure, matching
// spec.md §4.9's "if seccomp is compiled out, fail fast in secure mode;
// otherwise log a warning."
func Install(insecureOK bool) error {
	filter := buildFilter()
	prog := unix.SockFprog{
		Len:    uint16(len(filter)),
		Filter: &filter[0],
	}

	if err := unix.Prctl(unix.PR_SET_NO_NEW_PRIVS, 1, 0, 0, 0); err != nil {
		return err
	}

	err := unix.Prctl(unix.PR_SET_SECCOMP, unix.SECCOMP_MODE_FILTER, uintptr(unsafe.Pointer(&prog)), 0, 0)
	if err == nil {
		return nil
	}
	if insecureOK {
		return &errAvailability{reason: err.Error()}
	}
	return err
}
