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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMajorVersion(t *testing.T) {
	major, ok := majorVersion("535.129.03")
	require.True(t, ok)
	require.Equal(t, "535", major)

	_, ok = majorVersion("")
	require.False(t, ok)
}

func TestSonameMajor(t *testing.T) {
	testCases := []struct {
		path          string
		expectedMajor string
		expectedOK    bool
	}{
		{"/usr/local/cuda/compat/libcuda.so.470.82.01", "470", true},
		{"/usr/local/cuda/compat/libcudadebugger.so.470", "470", true},
		{"/usr/lib/libc.so", "", false},
		{"/usr/lib/libfoo.so.abc", "", false},
	}
	for _, tc := range testCases {
		major, ok := sonameMajor(tc.path)
		require.Equal(t, tc.expectedOK, ok, tc.path)
		require.Equal(t, tc.expectedMajor, major, tc.path)
	}
}
