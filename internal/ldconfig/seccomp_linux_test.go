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
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestAllowedSyscallsAllHaveNumbers(t *testing.T) {
	for _, name := range allowedSyscalls {
		_, ok := syscallNumbers[name]
		require.True(t, ok, "missing syscall number for %s", name)
	}
}

func TestBuildFilterLength(t *testing.T) {
	prog := buildFilter()
	// arch load+check+kill (3) + nr load (1) + one JEQ per allowed syscall
	// + errno return + allow return.
	require.Len(t, prog, 4+len(allowedSyscalls)+2)
}

func TestBuildFilterDefaultsToKillOnArchMismatch(t *testing.T) {
	prog := buildFilter()
	require.Equal(t, uint16(bpfLdW), prog[0].Code)
	require.Equal(t, uint32(offArch), prog[0].K)
	require.Equal(t, uint16(bpfJeqK), prog[1].Code)
	require.Equal(t, auditArchX86_64, prog[1].K)
	require.Equal(t, uint16(bpfRetK), prog[2].Code)
	require.Equal(t, seccompRetKill, prog[2].K)
}

func TestBuildFilterEndsWithErrnoThenAllow(t *testing.T) {
	prog := buildFilter()
	last := prog[len(prog)-1]
	secondLast := prog[len(prog)-2]
	require.Equal(t, uint16(bpfRetK), last.Code)
	require.Equal(t, seccompRetAllow, last.K)
	require.Equal(t, uint16(bpfRetK), secondLast.Code)
	require.Equal(t, seccompRetErrno|uint32(unix.EPERM), secondLast.K)
}
