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

	specs "github.com/opencontainers/runtime-spec/specs-go"
	"github.com/stretchr/testify/require"
)

func TestOCISeccompProfileListsEveryAllowedSyscall(t *testing.T) {
	p := ociSeccompProfile()
	require.Equal(t, specs.ActErrno, p.DefaultAction)
	require.Len(t, p.Syscalls, len(allowedSyscalls))

	names := make(map[string]bool)
	for _, s := range p.Syscalls {
		require.Equal(t, specs.ActAllow, s.Action)
		for _, n := range s.Names {
			names[n] = true
		}
	}
	for _, want := range allowedSyscalls {
		require.True(t, names[want], want)
	}
}

func TestErrAvailabilityError(t *testing.T) {
	err := &errAvailability{reason: "CONFIG_SECCOMP disabled"}
	require.Contains(t, err.Error(), "CONFIG_SECCOMP disabled")
}
