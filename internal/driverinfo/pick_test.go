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

package driverinfo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsGLFamily(t *testing.T) {
	testCases := []struct {
		base     string
		expected bool
	}{
		{"libGLX.so.535.104.05", true},
		{"libGLESv2.so.535.104.05", true},
		{"libEGL.so.535.104.05", true},
		{"libcuda.so.535.104.05", false},
		{"libnvidia-tls.so.535.104.05", false},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.expected, isGLFamily(tc.base), tc.base)
	}
}

func TestDriverLibraryPickRejectsCurrent(t *testing.T) {
	pick := DriverLibraryPick("535.104.05")
	ok, err := pick("/", "/usr/lib/libcuda.so.535.104.05", "/usr/lib/libcuda.so.535.104.05")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDriverLibraryPickRejectsWrongVersionSuffix(t *testing.T) {
	pick := DriverLibraryPick("535.104.05")
	ok, err := pick("/", "/usr/lib/libcuda.so.1", "/usr/lib/libcuda.so.470.10")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDriverLibraryPickAcceptsMatchingVersionSuffix(t *testing.T) {
	pick := DriverLibraryPick("535.104.05")
	ok, err := pick("/", "/usr/lib/libcuda.so.1", "/usr/lib/libnvidia-ptxjitcompiler.so.535.104.05")
	require.NoError(t, err)
	require.True(t, ok)
}
